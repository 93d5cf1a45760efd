package custody_test

import (
	"context"
	"errors"
	"testing"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	"assetbot/core/inventory/mocks"
	"assetbot/feature/custody"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// testConfig keeps verification delays at zero so tests run instantly.
func testConfig() inventory.Config {
	return inventory.Config{
		ReadyStatusID:    2,
		DeployedStatusID: 4,
		VerifyCycles:     1,
	}
}

func newService(inv inventory.Client) *custody.Service {
	return custody.NewService(inv, testConfig(), zap.NewNop(), audit.NewRecorder(nil))
}

var actor = audit.Actor{UserID: 42, CorrelationID: "test-ray"}

func availableAsset() *inventory.Asset {
	return &inventory.Asset{
		ID:     7,
		Tag:    "A1001",
		Name:   "iPad 14",
		Status: &inventory.StatusLabel{ID: 2, Name: "Ready to Deploy", Meta: "deployable"},
	}
}

func assignedAsset(userID int, name string) *inventory.Asset {
	return &inventory.Asset{
		ID:         7,
		Tag:        "A1001",
		Name:       "iPad 14",
		Status:     &inventory.StatusLabel{ID: 4, Name: "Checked Out", Meta: "deployed"},
		AssignedTo: &inventory.Assignee{ID: userID, Name: name, Type: "user"},
	}
}

func TestCheckoutConfirmed(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.MatchedBy(func(req inventory.CheckoutRequest) bool {
		return req.StatusID == 2 && req.CheckoutToType == "user" && req.AssignedUser == 42
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	outcome, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.NoError(t, err)
	assert.Contains(t, outcome.Message, "Successfully checked out")
	assert.Contains(t, outcome.Message, "iPad 14")
	assert.False(t, outcome.Unconfirmed)
	assert.False(t, outcome.Corrected)
	assert.True(t, outcome.Asset.AssignedToUser(42))
	inv.AssertExpectations(t)
}

func TestCheckoutAlreadyCheckedOutToSameUser(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	_, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.Equal(t, custody.ErrAlreadyInState, custody.ErrorKindOf(err))
	// Idempotent no-op: no write of any kind is issued.
	inv.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHeldByOther(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(17, "Ada Lovelace"), nil).Once()

	_, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)

	var opErr *custody.OperationError
	assert.ErrorAs(t, err, &opErr)
	assert.Equal(t, custody.ErrHeldByOther, opErr.Kind)
	assert.True(t, opErr.TransferAvailable)
	assert.Equal(t, 17, opErr.Holder.ID)
	assert.Contains(t, opErr.Message, "Ada Lovelace")
	inv.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRepairsDroppedAssignment(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	// Verification still sees ready-with-no-assignee: the one shape the
	// compensating write is allowed to fix.
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	inv.On("PatchAsset", mock.Anything, 7, mock.MatchedBy(func(p inventory.AssetPatch) bool {
		return p.StatusID != nil && *p.StatusID == 4 && p.AssignedTo != nil && *p.AssignedTo == 42
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	outcome, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.NoError(t, err)
	assert.True(t, outcome.Corrected)
	assert.Contains(t, outcome.Message, "Status corrected")
	inv.AssertExpectations(t)
}

func TestCheckoutUnconfirmedIsNeverSilent(t *testing.T) {
	unknown := &inventory.Asset{
		ID:     7,
		Tag:    "A1001",
		Name:   "iPad 14",
		Status: &inventory.StatusLabel{ID: 9, Name: "Pending"},
	}

	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("AssetByTag", mock.Anything, "A1001").Return(unknown, nil).Once()

	outcome, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.NoError(t, err)
	assert.True(t, outcome.Unconfirmed)
	assert.NotEmpty(t, outcome.Warning)
	assert.Contains(t, outcome.Message, "may be delayed")
	// Status is not the known-repairable shape; no corrective write.
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutLostRaceIsNotRepaired(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	// Another request won the race; the asset must not be overwritten.
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(17, "Ada Lovelace"), nil).Once()

	outcome, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.NoError(t, err)
	assert.True(t, outcome.Unconfirmed)
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUpstreamRejection(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()
	// HTTP 200 carrying an error payload still counts as a failed write.
	inv.On("Checkout", mock.Anything, 7, mock.Anything).Return(&inventory.ActionResponse{
		Status:   "error",
		Messages: []byte(`"That asset is not available for checkout!"`),
	}, nil).Once()

	_, err := newService(inv).Checkout(context.Background(), actor, "A1001", 42)
	assert.Equal(t, custody.ErrUpstreamWriteFailed, custody.ErrorKindOf(err))
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutInvalidIdentifier(t *testing.T) {
	inv := new(mocks.Client)
	svc := newService(inv)

	for _, bad := range []string{"", "   ", "A1001; DROP TABLE", "tag with spaces"} {
		_, err := svc.Checkout(context.Background(), actor, bad, 42)
		assert.Equal(t, custody.ErrPreconditionFailed, custody.ErrorKindOf(err), "identifier %q", bad)
	}
	inv.AssertNotCalled(t, "AssetByTag", mock.Anything, mock.Anything)
}

func TestCheckoutFallsBackToSearch(t *testing.T) {
	notFound := &inventory.APIError{Kind: inventory.KindNotFound, Message: "resource not found"}

	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "INV-17").Return(nil, notFound).Once()
	found := availableAsset()
	inv.On("ListAssets", mock.Anything, mock.MatchedBy(func(o inventory.ListOptions) bool {
		return o.Search == "INV-17"
	})).Return([]inventory.Asset{*found}, nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	outcome, err := newService(inv).Checkout(context.Background(), actor, "INV-17", 42)
	assert.NoError(t, err)
	assert.True(t, outcome.Asset.AssignedToUser(42))
	inv.AssertExpectations(t)
}

func TestCheckoutAssetNotFound(t *testing.T) {
	notFound := &inventory.APIError{Kind: inventory.KindNotFound, Message: "resource not found"}

	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "NOPE").Return(nil, notFound).Once()
	inv.On("ListAssets", mock.Anything, mock.Anything).Return([]inventory.Asset{}, nil).Once()

	_, err := newService(inv).Checkout(context.Background(), actor, "NOPE", 42)
	assert.Equal(t, custody.ErrNotFound, custody.ErrorKindOf(err))
}

func TestCheckinNotCheckedOut(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(availableAsset(), nil).Once()

	_, err := newService(inv).Checkin(context.Background(), actor, "A1001", 42)
	assert.Equal(t, custody.ErrAlreadyInState, custody.ErrorKindOf(err))
	inv.AssertNotCalled(t, "Checkin", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckinByHolder(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()
	inv.On("Checkin", mock.Anything, 7, mock.MatchedBy(func(note string) bool {
		return note == "Checked in via kiosk by user 42"
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("PatchAsset", mock.Anything, 7, mock.MatchedBy(func(p inventory.AssetPatch) bool {
		return p.StatusID != nil && *p.StatusID == 2 && p.AssignedTo == nil
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()

	outcome, err := newService(inv).Checkin(context.Background(), actor, "A1001", 42)
	assert.NoError(t, err)
	assert.False(t, outcome.CrossUser)
	assert.Empty(t, outcome.Warning)
	assert.Equal(t, "Asset checked in successfully.", outcome.Message)
	inv.AssertExpectations(t)
}

func TestCheckinCrossUser(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()
	inv.On("Checkin", mock.Anything, 7, mock.MatchedBy(func(note string) bool {
		return note == "Checked in via kiosk by user 99 (originally assigned to Jon Smith)"
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("PatchAsset", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()

	outcome, err := newService(inv).Checkin(context.Background(), audit.Actor{UserID: 99}, "A1001", 99)
	assert.NoError(t, err)
	assert.True(t, outcome.CrossUser)
	assert.Contains(t, outcome.Message, "Jon Smith")
	assert.Contains(t, outcome.Warning, "Jon Smith")
	inv.AssertExpectations(t)
}

func TestCheckinStatusResetFailureIsWarning(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()
	inv.On("Checkin", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("PatchAsset", mock.Anything, 7, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	outcome, err := newService(inv).Checkin(context.Background(), actor, "A1001", 42)
	// The asset is no longer assigned; the reset failure degrades, not fails.
	assert.NoError(t, err)
	assert.NotEmpty(t, outcome.Warning)
}

func TestTransferPreconditionCheckedBeforeAnyWrite(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(17, "Ada Lovelace"), nil).Once()

	_, err := newService(inv).Transfer(context.Background(), actor, "A1001", 42, 99)
	assert.Equal(t, custody.ErrPreconditionFailed, custody.ErrorKindOf(err))
	inv.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferToSelfIsANoOp(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	_, err := newService(inv).Transfer(context.Background(), actor, "A1001", 42, 42)
	assert.Equal(t, custody.ErrAlreadyInState, custody.ErrorKindOf(err))
	inv.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferConfirmed(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.MatchedBy(func(req inventory.CheckoutRequest) bool {
		return req.AssignedUser == 99
	})).Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(99, "Grace Hopper"), nil).Once()

	outcome, err := newService(inv).Transfer(context.Background(), audit.Actor{UserID: 99}, "A1001", 42, 99)
	assert.NoError(t, err)
	assert.Contains(t, outcome.Message, "Successfully transferred")
	assert.True(t, outcome.Asset.AssignedToUser(99))
	inv.AssertExpectations(t)
}

func TestTransferUnverifiedIsAHardFailure(t *testing.T) {
	inv := new(mocks.Client)
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()
	inv.On("Checkout", mock.Anything, 7, mock.Anything).
		Return(&inventory.ActionResponse{Status: "success"}, nil).Once()
	// Re-read still shows the old holder.
	inv.On("AssetByTag", mock.Anything, "A1001").Return(assignedAsset(42, "Jon Smith"), nil).Once()

	_, err := newService(inv).Transfer(context.Background(), audit.Actor{UserID: 99}, "A1001", 42, 99)
	assert.Equal(t, custody.ErrUpstreamWriteFailed, custody.ErrorKindOf(err))
	// Transfers never repair; that decision belongs to the caller.
	inv.AssertNotCalled(t, "PatchAsset", mock.Anything, mock.Anything, mock.Anything)
}
