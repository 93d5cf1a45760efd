package custody

import (
	"context"
	"time"

	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// The write-then-verify-then-repair sequence is a compensation protocol,
// not a transaction. It is modeled as an explicit state progression so the
// delay and repair policy live in one testable place.
type verifyState int

const (
	stateWriteSent verifyState = iota
	stateVerifying
	stateConfirmed
	stateRepaired
	stateUnconfirmed
)

func (s verifyState) String() string {
	switch s {
	case stateWriteSent:
		return "write_sent"
	case stateVerifying:
		return "verifying"
	case stateConfirmed:
		return "confirmed"
	case stateRepaired:
		return "repaired"
	case stateUnconfirmed:
		return "unconfirmed"
	default:
		return "unknown"
	}
}

// protocol drives verification for one custody write. It holds no state
// between requests.
type protocol struct {
	inv inventory.Client
	cfg inventory.Config
	log *zap.Logger
}

// confirm re-reads the asset after a write until it shows the expected
// assignee, optionally issuing one compensating write. Read failures
// during verification are inconclusive, never fatal: the write has already
// been accepted upstream. The returned asset is the last observed state,
// which may be nil when every read failed.
func (p *protocol) confirm(ctx context.Context, tag string, userID int, allowRepair bool) (verifyState, *inventory.Asset) {
	state := stateWriteSent
	var last *inventory.Asset

	for cycle := 0; cycle < p.cfg.Cycles(); cycle++ {
		if !p.pause(ctx, p.cfg.GraceDelay()) {
			return stateUnconfirmed, last
		}
		state = stateVerifying

		asset, err := p.inv.AssetByTag(ctx, tag)
		if err != nil {
			p.log.Warn("verification read failed",
				zap.String("tag", tag),
				zap.String("state", state.String()),
				zap.Error(err),
			)
			continue
		}
		last = asset

		if asset.AssignedToUser(userID) {
			return stateConfirmed, asset
		}
	}

	if allowRepair && p.repairable(last) {
		if repaired, asset := p.repair(ctx, last, userID); repaired {
			return stateRepaired, asset
		} else if asset != nil {
			last = asset
		}
	}

	return stateUnconfirmed, last
}

// repairable guards the compensating write. It fires only for the one
// inconsistent shape the upstream is known to produce: assignment dropped
// while the status stayed on "ready". Anything else, such as an asset now
// assigned to somebody else after a lost race, must not be overwritten.
func (p *protocol) repairable(a *inventory.Asset) bool {
	if a == nil || a.AssignedTo != nil {
		return false
	}
	return a.Status != nil && a.Status.ID == p.cfg.ReadyStatusID
}

// repair issues one corrective PATCH forcing status and assignee, then
// verifies once more.
func (p *protocol) repair(ctx context.Context, a *inventory.Asset, userID int) (bool, *inventory.Asset) {
	p.log.Info("forcing status update after unconfirmed checkout",
		zap.String("tag", a.Tag),
		zap.Int("user_id", userID),
	)

	statusID := p.cfg.DeployedStatusID
	assignee := userID
	resp, err := p.inv.PatchAsset(ctx, a.ID, inventory.AssetPatch{
		StatusID:   &statusID,
		AssignedTo: &assignee,
	})
	if err != nil {
		p.log.Error("corrective update failed", zap.String("tag", a.Tag), zap.Error(err))
		return false, nil
	}
	if err := resp.Err(); err != nil {
		p.log.Error("corrective update rejected", zap.String("tag", a.Tag), zap.Error(err))
		return false, nil
	}

	if !p.pause(ctx, p.cfg.RepairDelay()) {
		return false, nil
	}

	asset, err := p.inv.AssetByTag(ctx, a.Tag)
	if err != nil {
		p.log.Warn("re-read after corrective update failed", zap.String("tag", a.Tag), zap.Error(err))
		return false, nil
	}
	return asset.AssignedToUser(userID), asset
}

// pause sleeps for d unless the request context ends first. The suspension
// blocks only the current request's flow.
func (p *protocol) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
