package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client defines the typed surface over the external inventory API.
// Every method carries a context and returns classified errors (APIError).
type Client interface {
	// SearchUsers performs the API's native substring search over users.
	SearchUsers(ctx context.Context, query string, limit int) ([]User, error)
	// GetUser fetches a single user by internal id.
	GetUser(ctx context.Context, id int) (*User, error)
	// UserAssets lists the assets the API reports as assigned to the user.
	UserAssets(ctx context.Context, id int) ([]Asset, error)
	// ListAssets lists hardware with the given filter options.
	ListAssets(ctx context.Context, opts ListOptions) ([]Asset, error)
	// AssetByTag fetches a single asset by its exact tag.
	AssetByTag(ctx context.Context, tag string) (*Asset, error)
	// Checkout assigns an asset to a user.
	Checkout(ctx context.Context, assetID int, req CheckoutRequest) (*ActionResponse, error)
	// Checkin releases an asset from its current assignee.
	Checkin(ctx context.Context, assetID int, note string) (*ActionResponse, error)
	// PatchAsset partially updates an asset's status and assignee.
	PatchAsset(ctx context.Context, assetID int, patch AssetPatch) (*ActionResponse, error)
	// CreateUser creates a person record.
	CreateUser(ctx context.Context, req CreateUserRequest) (*ActionResponse, error)
	// Departments lists all departments.
	Departments(ctx context.Context) ([]Department, error)
}

// ListOptions are the hardware list filters the directory cascade relies
// on. Zero values are omitted from the query string.
type ListOptions struct {
	Search       string
	Limit        int
	Offset       int
	AssignedTo   int
	AssignedUser int
	Expand       string
	Status       string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.AssignedTo > 0 {
		v.Set("assigned_to", strconv.Itoa(o.AssignedTo))
	}
	if o.AssignedUser > 0 {
		v.Set("assigned_user", strconv.Itoa(o.AssignedUser))
	}
	if o.Expand != "" {
		v.Set("expand", o.Expand)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	return v
}

// NewClient creates the REST client. TLS certificate validation is always
// on; there is deliberately no configuration knob to disable it.
func NewClient(cfg Config, log *zap.Logger) (Client, error) {
	base := strings.TrimRight(cfg.URL, "/")
	if base == "" {
		return nil, fmt.Errorf("inventory: base URL not configured")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("inventory: API token not configured")
	}
	timeout := cfg.Timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &restClient{
		base:  base,
		token: cfg.Token,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		log: log,
	}, nil
}

type restClient struct {
	base  string
	token string
	http  *http.Client
	log   *zap.Logger
}

// request performs one API call and decodes the response into out.
// Classification rules: transport failures are KindNetwork, auth problems
// map to their status, 5xx to KindServer, and undecodable bodies to
// KindMalformed. The log line carries method, path and status only.
func (c *restClient) request(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindMalformed, Method: method, Path: path, Message: "request encoding failed"}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("inventory request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Message: "unable to reach the inventory service"}
	}
	defer resp.Body.Close()

	c.log.Debug("inventory request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if apiErr := classifyStatus(resp.StatusCode, method, path); apiErr != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindMalformed, Status: resp.StatusCode, Method: method, Path: path, Message: "unexpected response shape"}
	}
	return nil
}

func classifyStatus(status int, method, path string) *APIError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, Status: status, Method: method, Path: path, Message: "authentication failed"}
	case status == http.StatusForbidden:
		return &APIError{Kind: KindForbidden, Status: status, Method: method, Path: path, Message: "permission denied"}
	case status == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Status: status, Method: method, Path: path, Message: "resource not found"}
	case status == http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimited, Status: status, Method: method, Path: path, Message: "rate limited"}
	default:
		return &APIError{Kind: KindServer, Status: status, Method: method, Path: path, Message: "upstream error"}
	}
}

func (c *restClient) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	v := url.Values{}
	v.Set("search", strings.TrimSpace(query))
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var env rows[User]
	if err := c.request(ctx, http.MethodGet, "/users", v, nil, &env); err != nil {
		return nil, err
	}
	return env.Rows, nil
}

func (c *restClient) GetUser(ctx context.Context, id int) (*User, error) {
	var user User
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *restClient) UserAssets(ctx context.Context, id int) ([]Asset, error) {
	var env rows[Asset]
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d/assets", id), nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Rows, nil
}

func (c *restClient) ListAssets(ctx context.Context, opts ListOptions) ([]Asset, error) {
	var env rows[Asset]
	if err := c.request(ctx, http.MethodGet, "/hardware", opts.values(), nil, &env); err != nil {
		return nil, err
	}
	return env.Rows, nil
}

func (c *restClient) AssetByTag(ctx context.Context, tag string) (*Asset, error) {
	var asset Asset
	if err := c.request(ctx, http.MethodGet, "/hardware/bytag/"+url.PathEscape(tag), nil, nil, &asset); err != nil {
		return nil, err
	}
	if asset.ID == 0 {
		return nil, &APIError{Kind: KindNotFound, Method: http.MethodGet, Path: "/hardware/bytag/" + tag, Message: "resource not found"}
	}
	return &asset, nil
}

func (c *restClient) Checkout(ctx context.Context, assetID int, req CheckoutRequest) (*ActionResponse, error) {
	var resp ActionResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/hardware/%d/checkout", assetID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *restClient) Checkin(ctx context.Context, assetID int, note string) (*ActionResponse, error) {
	var resp ActionResponse
	body := map[string]string{"note": note}
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/hardware/%d/checkin", assetID), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *restClient) PatchAsset(ctx context.Context, assetID int, patch AssetPatch) (*ActionResponse, error) {
	var resp ActionResponse
	if err := c.request(ctx, http.MethodPatch, fmt.Sprintf("/hardware/%d", assetID), nil, patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *restClient) CreateUser(ctx context.Context, req CreateUserRequest) (*ActionResponse, error) {
	var resp ActionResponse
	if err := c.request(ctx, http.MethodPost, "/users", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *restClient) Departments(ctx context.Context) ([]Department, error) {
	v := url.Values{}
	v.Set("limit", "500")
	var env rows[Department]
	if err := c.request(ctx, http.MethodGet, "/departments", v, nil, &env); err != nil {
		return nil, err
	}
	return env.Rows, nil
}
