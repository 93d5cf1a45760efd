package custody

import (
	"context"
	"fmt"
	"strings"

	"assetbot/core/audit"
	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// Service implements the custody state machine. It holds no cross-request
// state: every decision re-reads the asset from the inventory service.
type Service struct {
	inv   inventory.Client
	cfg   inventory.Config
	log   *zap.Logger
	rec   *audit.Recorder
	proto *protocol
}

// NewService creates a new custody service.
func NewService(inv inventory.Client, cfg inventory.Config, log *zap.Logger, rec *audit.Recorder) *Service {
	return &Service{
		inv:   inv,
		cfg:   cfg,
		log:   log,
		rec:   rec,
		proto: &protocol{inv: inv, cfg: cfg, log: log},
	}
}

const maxIdentifierLen = 64

// sanitizeIdentifier validates scanned barcode input before it reaches the
// API. Tags are short and alphanumeric with a few separators.
func sanitizeIdentifier(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", &OperationError{Kind: ErrPreconditionFailed, Message: "Missing asset identifier."}
	}
	if len(id) > maxIdentifierLen {
		return "", &OperationError{Kind: ErrPreconditionFailed, Message: "Invalid barcode: identifier too long."}
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return "", &OperationError{Kind: ErrPreconditionFailed, Message: "Invalid barcode: unexpected character."}
		}
	}
	return id, nil
}

// findAsset resolves a scanned identifier to an asset record, trying the
// exact tag endpoint first and falling back to substring search for
// deployments where tags and inventory labels diverge.
func (s *Service) findAsset(ctx context.Context, identifier string) (*inventory.Asset, error) {
	asset, err := s.inv.AssetByTag(ctx, identifier)
	if err == nil {
		return asset, nil
	}
	if !inventory.IsNotFound(err) {
		return nil, err
	}

	results, err := s.inv.ListAssets(ctx, inventory.ListOptions{Search: identifier, Limit: 10})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &OperationError{Kind: ErrNotFound, Message: "Asset not found."}
	}
	return &results[0], nil
}

// Checkout assigns an available asset to the given user, then verifies the
// assignment took effect and repairs it when the upstream dropped it.
func (s *Service) Checkout(ctx context.Context, actor audit.Actor, identifier string, userID int) (*Outcome, error) {
	id, err := sanitizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, &OperationError{Kind: ErrPreconditionFailed, Message: "Missing target user."}
	}

	asset, err := s.findAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if asset.Deployed(s.cfg.DeployedStatusID) {
		if asset.AssignedToUser(userID) {
			return nil, &OperationError{
				Kind:    ErrAlreadyInState,
				Message: "Asset is already checked out to you.",
			}
		}
		holder := asset.AssignedTo
		holderName := "another user"
		if holder != nil && holder.Name != "" {
			holderName = holder.Name
		}
		return nil, &OperationError{
			Kind:              ErrHeldByOther,
			Message:           fmt.Sprintf("Asset is already checked out to %s.", holderName),
			Holder:            holder,
			TransferAvailable: true,
		}
	}

	// The ready status id must ride along with the assignee: a bare
	// checkout call can leave the status unset while the assignment
	// succeeds upstream.
	resp, err := s.inv.Checkout(ctx, asset.ID, inventory.CheckoutRequest{
		StatusID:       s.cfg.ReadyStatusID,
		CheckoutToType: "user",
		AssignedUser:   userID,
		Note:           "Checked out via kiosk",
	})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.rec.Record(actor, audit.AssetCheckoutFailed,
			fmt.Sprintf("failed to check out asset %s to user %d", asset.Tag, userID),
			zap.String("tag", asset.Tag), zap.Error(err))
		return nil, &OperationError{
			Kind:    ErrUpstreamWriteFailed,
			Message: fmt.Sprintf("Failed to check out asset: %s", err.Error()),
		}
	}

	s.rec.Record(actor, audit.AssetCheckout,
		fmt.Sprintf("asset %s checked out to user %d", asset.Tag, userID),
		zap.String("tag", asset.Tag), zap.Int("target_user", userID))

	state, verified := s.proto.confirm(ctx, asset.Tag, userID, true)
	if verified == nil {
		verified = asset
	}

	switch state {
	case stateConfirmed:
		return &Outcome{
			Message: fmt.Sprintf("Successfully checked out: %s", receiptLine(verified, s.cfg.FieldCandidates())),
			Asset:   verified,
		}, nil
	case stateRepaired:
		s.rec.Record(actor, audit.AssetCheckoutCorrected,
			fmt.Sprintf("asset %s required a compensating status update", asset.Tag),
			zap.String("tag", asset.Tag), zap.Int("target_user", userID))
		return &Outcome{
			Message:   fmt.Sprintf("Successfully checked out: %s - Status corrected", receiptLine(verified, s.cfg.FieldCandidates())),
			Corrected: true,
			Asset:     verified,
		}, nil
	default:
		s.rec.Record(actor, audit.AssetCheckoutUnconfirmed,
			fmt.Sprintf("asset %s checkout accepted upstream but unverified", asset.Tag),
			zap.String("tag", asset.Tag), zap.Int("target_user", userID))
		return &Outcome{
			Message: fmt.Sprintf("%s checkout processed, but assignment may be delayed. Please check your dashboard in a moment.",
				receiptLine(verified, s.cfg.FieldCandidates())),
			Warning:     "Assignment could not be verified yet.",
			Unconfirmed: true,
			Asset:       verified,
		}, nil
	}
}

// Checkin releases an asset from its current assignee. Equipment may be
// returned by someone other than the holder; that path proceeds but is
// tagged as a cross-user event for audit.
func (s *Service) Checkin(ctx context.Context, actor audit.Actor, identifier string, userID int) (*Outcome, error) {
	id, err := sanitizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, &OperationError{Kind: ErrPreconditionFailed, Message: "Missing acting user."}
	}

	asset, err := s.findAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if !asset.Deployed(s.cfg.DeployedStatusID) {
		return nil, &OperationError{
			Kind:    ErrAlreadyInState,
			Message: "Asset is not currently checked out.",
		}
	}

	crossUser := !asset.AssignedToUser(userID)
	holderName := "No one"
	if asset.AssignedTo != nil && asset.AssignedTo.Name != "" {
		holderName = asset.AssignedTo.Name
	}

	note := fmt.Sprintf("Checked in via kiosk by user %d", userID)
	if crossUser {
		note += fmt.Sprintf(" (originally assigned to %s)", holderName)
		s.rec.Record(actor, audit.CrossUserAssetCheckin,
			fmt.Sprintf("user %d returning asset %s assigned to %s", userID, asset.Tag, holderName),
			zap.String("tag", asset.Tag))
	}

	resp, err := s.inv.Checkin(ctx, asset.ID, note)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.rec.Record(actor, audit.AssetCheckinFailed,
			fmt.Sprintf("failed to check in asset %s", asset.Tag),
			zap.String("tag", asset.Tag), zap.Error(err))
		return nil, &OperationError{
			Kind:    ErrUpstreamWriteFailed,
			Message: fmt.Sprintf("Failed to check in asset: %s", err.Error()),
		}
	}

	if !crossUser {
		s.rec.Record(actor, audit.AssetCheckin,
			fmt.Sprintf("asset %s checked in", asset.Tag),
			zap.String("tag", asset.Tag))
	}

	outcome := &Outcome{
		Message:   "Asset checked in successfully.",
		CrossUser: crossUser,
		Asset:     asset,
	}
	if crossUser {
		outcome.Message = fmt.Sprintf("Asset returned successfully. (Note: This was assigned to %s)", holderName)
		outcome.Warning = fmt.Sprintf("Asset was originally assigned to %s", holderName)
	}

	// The bare checkin call does not reliably reset the status, so the
	// asset is unconditionally flagged available afterwards. Failure here
	// is a warning only: the asset is at minimum no longer assigned.
	s.proto.pause(ctx, s.cfg.RepairDelay())
	statusID := s.cfg.ReadyStatusID
	resp, err = s.inv.PatchAsset(ctx, asset.ID, inventory.AssetPatch{StatusID: &statusID})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.log.Warn("failed to reset status after checkin",
			zap.String("tag", asset.Tag), zap.Error(err))
		if outcome.Warning == "" {
			outcome.Warning = "Asset returned, but its availability status may need manual correction."
		}
	}

	return outcome, nil
}

// Transfer reassigns an asset from one user to another. The current
// assignment is verified explicitly before any write; a transfer has no
// safe partial-success interpretation, so an unverified result is a hard
// failure rather than a warning.
func (s *Service) Transfer(ctx context.Context, actor audit.Actor, identifier string, fromUser, toUser int) (*Outcome, error) {
	id, err := sanitizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if fromUser <= 0 || toUser <= 0 {
		return nil, &OperationError{Kind: ErrPreconditionFailed, Message: "Missing required parameters for transfer."}
	}

	asset, err := s.findAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if !asset.AssignedToUser(fromUser) {
		s.rec.Record(actor, audit.AssetTransferDenied,
			fmt.Sprintf("asset %s is not assigned to user %d", asset.Tag, fromUser),
			zap.String("tag", asset.Tag), zap.Int("from_user", fromUser), zap.Int("to_user", toUser))
		return nil, &OperationError{
			Kind:    ErrPreconditionFailed,
			Message: "Asset is not currently assigned to the specified user.",
		}
	}

	if fromUser == toUser {
		return nil, &OperationError{
			Kind:    ErrAlreadyInState,
			Message: "Asset is already assigned to this user.",
		}
	}

	resp, err := s.inv.Checkout(ctx, asset.ID, inventory.CheckoutRequest{
		StatusID:       s.cfg.ReadyStatusID,
		CheckoutToType: "user",
		AssignedUser:   toUser,
		Note:           "Transferred via kiosk",
	})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.rec.Record(actor, audit.AssetTransferFailed,
			fmt.Sprintf("failed to transfer asset %s to user %d", asset.Tag, toUser),
			zap.String("tag", asset.Tag), zap.Error(err))
		return nil, &OperationError{
			Kind:    ErrUpstreamWriteFailed,
			Message: fmt.Sprintf("Failed to transfer asset: %s", err.Error()),
		}
	}

	state, verified := s.proto.confirm(ctx, asset.Tag, toUser, false)
	if state != stateConfirmed {
		s.rec.Record(actor, audit.AssetTransferFailed,
			fmt.Sprintf("transfer of asset %s to user %d did not verify", asset.Tag, toUser),
			zap.String("tag", asset.Tag), zap.Int("to_user", toUser))
		return nil, &OperationError{
			Kind:    ErrUpstreamWriteFailed,
			Message: "Transfer failed - asset assignment did not update properly.",
		}
	}

	s.rec.Record(actor, audit.AssetTransfer,
		fmt.Sprintf("asset %s transferred from user %d to user %d", asset.Tag, fromUser, toUser),
		zap.String("tag", asset.Tag), zap.Int("from_user", fromUser), zap.Int("to_user", toUser))

	return &Outcome{
		Message: fmt.Sprintf("Successfully transferred: %s to you", receiptLine(verified, s.cfg.FieldCandidates())),
		Asset:   verified,
	}, nil
}
