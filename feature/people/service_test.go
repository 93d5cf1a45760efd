package people_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	"assetbot/core/inventory/mocks"
	"assetbot/feature/people"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(inv inventory.Client) *people.Service {
	return people.NewService(inv, zap.NewNop(), audit.NewRecorder(nil))
}

func TestSignIn(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("SearchUsers", mock.Anything, "E12345", 1).Return([]inventory.User{
		{ID: 42, Name: "Jon Smith", EmployeeNum: "E12345", VIP: true, Email: "jon@example.com"},
	}, nil).Once()

	profile, err := newService(inv).SignIn(context.Background(), "ray-1", " E12345 ")
	require.NoError(t, err)
	assert.Equal(t, 42, profile.ID)
	assert.Equal(t, "Jon Smith", profile.Name)
	assert.True(t, profile.VIP)
}

func TestSignInUnknownBadge(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("SearchUsers", mock.Anything, "E99999", 1).Return([]inventory.User{}, nil).Once()

	_, err := newService(inv).SignIn(context.Background(), "ray-1", "E99999")
	var notFound *people.ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSignInEmptyBarcode(t *testing.T) {
	inv := new(mocks.Client)

	_, err := newService(inv).SignIn(context.Background(), "ray-1", "   ")
	var notFound *people.ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
	inv.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything, mock.Anything)
}

func TestVIPStatus(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("SearchUsers", mock.Anything, "E12345", 1).Return([]inventory.User{
		{ID: 42, Name: "Jon Smith", VIP: false},
	}, nil).Once()

	vip, profile, err := newService(inv).VIPStatus(context.Background(), "E12345")
	require.NoError(t, err)
	assert.False(t, vip)
	assert.Equal(t, 42, profile.ID)
}

func TestCreateUserValidation(t *testing.T) {
	inv := new(mocks.Client)
	svc := newService(inv)

	inputs := []people.CreateUserInput{
		{LastName: "Smith", Username: "jsmith", Email: "j@example.com"},
		{FirstName: "Jon", Username: "jsmith", Email: "j@example.com"},
		{FirstName: "Jon", LastName: "Smith", Email: "j@example.com"},
		{FirstName: "Jon", LastName: "Smith", Username: "jsmith"},
	}
	for _, in := range inputs {
		_, err := svc.CreateUser(context.Background(), audit.Actor{}, in)
		assert.ErrorContains(t, err, "missing required field")
	}
	inv.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUser(t *testing.T) {
	payload, _ := json.Marshal(inventory.User{ID: 7, Name: "Jon Smith", EmployeeNum: "E12345"})

	inv := new(mocks.Client)
	inv.On("CreateUser", mock.Anything, mock.MatchedBy(func(req inventory.CreateUserRequest) bool {
		return req.FirstName == "Jon" &&
			req.Email == "jon@example.com" &&
			req.Activated &&
			req.Password == "hunter2" &&
			req.PasswordConfirmation == "hunter2" &&
			req.VIP == 1
	})).Return(&inventory.ActionResponse{Status: "success", Payload: payload}, nil).Once()

	profile, err := newService(inv).CreateUser(context.Background(), audit.Actor{}, people.CreateUserInput{
		FirstName:   "Jon",
		LastName:    "Smith",
		Username:    "jsmith",
		Email:       " Jon@Example.com ",
		EmployeeNum: "E12345",
		Password:    "hunter2",
		VIP:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, profile.ID)
	inv.AssertExpectations(t)
}

func TestCreateUserUpstreamRejection(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("CreateUser", mock.Anything, mock.Anything).Return(&inventory.ActionResponse{
		Status:   "error",
		Messages: []byte(`{"username":["The username has already been taken."]}`),
	}, nil).Once()

	_, err := newService(inv).CreateUser(context.Background(), audit.Actor{}, people.CreateUserInput{
		FirstName: "Jon", LastName: "Smith", Username: "jsmith", Email: "j@example.com",
	})
	assert.ErrorContains(t, err, "taken")
}

func TestDepartments(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("Departments", mock.Anything).Return([]inventory.Department{
		{ID: 1, Name: "AV", Manager: &inventory.NamedRef{ID: 3, Name: "Pat Doe"}},
	}, nil).Once()

	departments, err := newService(inv).Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "AV", departments[0].Name)
}

func TestUserByIDUpstreamError(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("GetUser", mock.Anything, 42).Return(nil, errors.New("boom")).Once()

	_, err := newService(inv).UserByID(context.Background(), 42)
	assert.Error(t, err)
}
