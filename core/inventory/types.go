package inventory

import (
	"encoding/json"

	"assetbot/core/utils"
)

// Flag is a boolean the API may encode as true/false, 0/1 or "1".
type Flag bool

// UnmarshalJSON accepts any of the encodings the API is known to emit.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Flag(utils.ToBool(raw))
	return nil
}

// NamedRef is a minimal reference to a related record (model, category,
// department, manager).
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StatusLabel is the status attached to an asset. Its three fields are one
// of the signals used to derive the deployed state; see Asset.Deployed.
type StatusLabel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Meta string `json:"status_meta"`
}

// Assignee is the party an asset is checked out to. Type distinguishes
// user assignments from location or asset assignments.
type Assignee struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Asset is a trackable equipment item owned by the external inventory
// service. The engine never persists assets; every decision re-reads them.
type Asset struct {
	ID           int            `json:"id"`
	Tag          string         `json:"asset_tag"`
	Name         string         `json:"name"`
	Serial       string         `json:"serial"`
	Model        *NamedRef      `json:"model"`
	Category     *NamedRef      `json:"category"`
	Status       *StatusLabel   `json:"status_label"`
	AssignedTo   *Assignee      `json:"assigned_to"`
	CustomFields map[string]any `json:"custom_fields"`
}

// User is a person record in the inventory service.
type User struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	EmployeeNum string    `json:"employee_num"`
	VIP         Flag      `json:"vip"`
	Department  *NamedRef `json:"department"`
	// Assets is populated by deployments that embed current assignments in
	// the user resource. Most do not; see the directory scanner cascade.
	Assets []Asset `json:"assets"`
}

// Department is an organizational unit users belong to.
type Department struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Notes   string    `json:"notes"`
	Manager *NamedRef `json:"manager"`
}

// rows is the list envelope every collection endpoint wraps results in.
// A missing or empty rows array means "no match", never an error.
type rows[T any] struct {
	Total int `json:"total"`
	Rows  []T `json:"rows"`
}

// ActionResponse is the body returned by write endpoints (checkout,
// checkin, patch, create). The API can answer HTTP 200 with an error
// status in the payload, so callers must consult Err after every write.
type ActionResponse struct {
	Status   string          `json:"status"`
	Messages json.RawMessage `json:"messages"`
	Payload  json.RawMessage `json:"payload"`
}

// Err returns a non-nil error when the response carries an error status
// despite a successful transport exchange.
func (r *ActionResponse) Err() error {
	if r == nil || r.Status != "error" {
		return nil
	}
	return &APIError{Kind: KindServer, Message: r.Message()}
}

// Decode unmarshals the payload object into v.
func (r *ActionResponse) Decode(v any) error {
	if r == nil || len(r.Payload) == 0 {
		return &APIError{Kind: KindMalformed, Message: "response carried no payload"}
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return &APIError{Kind: KindMalformed, Message: err.Error()}
	}
	return nil
}

// Message flattens the messages field, which may be a string, a list, or a
// field-to-errors map depending on the endpoint.
func (r *ActionResponse) Message() string {
	if r == nil || len(r.Messages) == 0 {
		return "request rejected"
	}
	var raw any
	if err := json.Unmarshal(r.Messages, &raw); err != nil {
		return "request rejected"
	}
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		for _, val := range v {
			if s := utils.ToString(val); s != "" {
				return s
			}
		}
	case []any:
		if len(v) > 0 {
			return utils.ToString(v[0])
		}
	}
	return "request rejected"
}

// CheckoutRequest is the write that assigns an asset to a user. The status
// id must be sent together with the assignee: bare checkout calls are known
// to leave the status unset while the assignment succeeds.
type CheckoutRequest struct {
	StatusID       int    `json:"status_id"`
	CheckoutToType string `json:"checkout_to_type"`
	AssignedUser   int    `json:"assigned_user"`
	Note           string `json:"note,omitempty"`
}

// AssetPatch is a partial update of an asset's status and assignee, used by
// the repair step and the post-checkin status reset.
type AssetPatch struct {
	StatusID   *int `json:"status_id,omitempty"`
	AssignedTo *int `json:"assigned_to,omitempty"`
}

// CreateUserRequest creates a person record. First/last name, username and
// email are required by the API.
type CreateUserRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Activated            bool   `json:"activated"`
	EmployeeNum          string `json:"employee_num,omitempty"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
	VIP                  int    `json:"vip,omitempty"`
	DepartmentID         int    `json:"department_id,omitempty"`
}
