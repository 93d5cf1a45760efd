package people

import (
	"context"
	"fmt"
	"strings"

	"assetbot/core/audit"
	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// Service handles sign-in, user creation and the VIP gate against the
// inventory service's people records.
type Service struct {
	inv inventory.Client
	log *zap.Logger
	rec *audit.Recorder
}

// NewService creates a new people service.
func NewService(inv inventory.Client, log *zap.Logger, rec *audit.Recorder) *Service {
	return &Service{inv: inv, log: log, rec: rec}
}

// Profile is the sign-in projection of a user record. Only the fields the
// kiosk needs leave this package; the raw record stays internal.
type Profile struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	EmployeeNum string `json:"employee_num"`
	Email       string `json:"email"`
	VIP         bool   `json:"vip"`
}

func profileOf(u *inventory.User) *Profile {
	return &Profile{
		ID:          u.ID,
		Name:        u.Name,
		EmployeeNum: u.EmployeeNum,
		Email:       u.Email,
		VIP:         bool(u.VIP),
	}
}

// ErrUserNotFound is returned when a barcode or employee number matches
// no user record.
type ErrUserNotFound struct{}

func (*ErrUserNotFound) Error() string { return "user not found" }

// SignIn resolves a scanned badge barcode to a user. Every attempt gets
// an audit event regardless of outcome; the barcode itself is never
// logged.
func (s *Service) SignIn(ctx context.Context, correlationID, barcode string) (*Profile, error) {
	actor := audit.Actor{CorrelationID: correlationID}
	s.rec.Record(actor, audit.SigninAttempt, "sign-in attempt with scanned badge")

	employeeNum := strings.TrimSpace(barcode)
	if employeeNum == "" {
		s.rec.Record(actor, audit.SigninFailure, "sign-in with empty barcode")
		return nil, &ErrUserNotFound{}
	}

	users, err := s.inv.SearchUsers(ctx, employeeNum, 1)
	if err != nil {
		s.log.Error("sign-in lookup failed", zap.Error(err))
		s.rec.Record(actor, audit.SigninFailure, "sign-in lookup failed upstream")
		return nil, err
	}
	if len(users) == 0 {
		s.rec.Record(actor, audit.SigninFailure, "sign-in for unknown employee number")
		return nil, &ErrUserNotFound{}
	}

	user := users[0]
	s.rec.Record(audit.Actor{UserID: user.ID, CorrelationID: correlationID},
		audit.SigninSuccess, fmt.Sprintf("successful sign-in for user %d", user.ID))
	return profileOf(&user), nil
}

// UserByID fetches a single user record.
func (s *Service) UserByID(ctx context.Context, id int) (*Profile, error) {
	user, err := s.inv.GetUser(ctx, id)
	if err != nil {
		if inventory.IsNotFound(err) {
			return nil, &ErrUserNotFound{}
		}
		return nil, err
	}
	return profileOf(user), nil
}

// VIPStatus reports whether the user with the given employee number is
// flagged VIP. Unknown users are simply not VIP.
func (s *Service) VIPStatus(ctx context.Context, employeeNum string) (bool, *Profile, error) {
	employeeNum = strings.TrimSpace(employeeNum)
	if employeeNum == "" {
		return false, nil, &ErrUserNotFound{}
	}

	users, err := s.inv.SearchUsers(ctx, employeeNum, 1)
	if err != nil {
		return false, nil, err
	}
	if len(users) == 0 {
		return false, nil, &ErrUserNotFound{}
	}
	user := users[0]
	return bool(user.VIP), profileOf(&user), nil
}

// CreateUserInput is the caller-facing shape for user creation.
type CreateUserInput struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	EmployeeNum  string `json:"employee_num"`
	Password     string `json:"password"`
	VIP          bool   `json:"vip"`
	DepartmentID int    `json:"department_id"`
}

func (in *CreateUserInput) validate() error {
	missing := func(field string) error {
		return fmt.Errorf("missing required field: %s", field)
	}
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return missing("first_name")
	case strings.TrimSpace(in.LastName) == "":
		return missing("last_name")
	case strings.TrimSpace(in.Username) == "":
		return missing("username")
	case strings.TrimSpace(in.Email) == "":
		return missing("email")
	}
	return nil
}

// CreateUser creates a person record, activated immediately.
func (s *Service) CreateUser(ctx context.Context, actor audit.Actor, in CreateUserInput) (*Profile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	req := inventory.CreateUserRequest{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Activated:   true,
		EmployeeNum: strings.TrimSpace(in.EmployeeNum),
	}
	if in.Password != "" {
		req.Password = in.Password
		req.PasswordConfirmation = in.Password
	}
	if in.VIP {
		req.VIP = 1
	}
	if in.DepartmentID > 0 {
		req.DepartmentID = in.DepartmentID
	}

	resp, err := s.inv.CreateUser(ctx, req)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.log.Error("user creation failed", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.rec.Record(actor, audit.UserCreated,
		fmt.Sprintf("created user %s", req.Username),
		zap.String("username", req.Username))

	var created inventory.User
	if err := resp.Decode(&created); err != nil {
		// The record exists; a malformed payload only degrades the echo.
		s.log.Warn("could not decode created user payload", zap.Error(err))
		return &Profile{Name: req.FirstName + " " + req.LastName, EmployeeNum: req.EmployeeNum, Email: req.Email, VIP: in.VIP}, nil
	}
	return profileOf(&created), nil
}

// Departments lists organizational units for the signup form.
func (s *Service) Departments(ctx context.Context) ([]inventory.Department, error) {
	return s.inv.Departments(ctx)
}
