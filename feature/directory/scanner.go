package directory

import (
	"context"

	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// scanner finds every asset assigned to a user. The inventory API's
// filter-by-assignee query is unreliable across deployments, so the
// scanner runs a fixed cascade of strategies, deduplicating by asset tag
// as results accumulate. Each strategy is independent: a failure is logged
// and the cascade proceeds.
type scanner struct {
	inv inventory.Client
	cfg inventory.Config
	log *zap.Logger
}

const (
	assetEmbedExpand = "assigned_to,status_label"
	fullExpand       = "assigned_to,status_label,model"

	// broadenThreshold triggers the wide unfiltered scan when earlier
	// strategies found fewer assets than this.
	broadenThreshold = 10

	// fallbackPages bounds the final pagination sweep.
	fallbackPages = 2
)

// assetsAssignedTo runs the full cascade for one user.
func (s *scanner) assetsAssignedTo(ctx context.Context, userID int) ([]inventory.Asset, error) {
	if userID <= 0 {
		return nil, &inventory.APIError{Kind: inventory.KindNotFound, Message: "missing user id"}
	}

	// Strategy 1: some deployments embed current assignments directly in
	// the user resource. Cheapest path when it works.
	user, err := s.inv.GetUser(ctx, userID)
	if err != nil {
		s.log.Debug("user endpoint strategy failed", zap.Int("user_id", userID), zap.Error(err))
	} else if len(user.Assets) > 0 {
		s.log.Debug("assets embedded in user resource",
			zap.Int("user_id", userID), zap.Int("count", len(user.Assets)))
		return user.Assets, nil
	}

	found := make([]inventory.Asset, 0, 8)
	seen := make(map[string]struct{})

	collect := func(assets []inventory.Asset) int {
		added := 0
		for _, a := range assets {
			if !a.AssignedToUser(userID) {
				continue
			}
			if a.Tag == "" {
				continue
			}
			if _, ok := seen[a.Tag]; ok {
				continue
			}
			seen[a.Tag] = struct{}{}
			found = append(found, a)
			added++
		}
		return added
	}

	// Strategy 2: assignee filters under several parameter-name variants.
	// Parameter support differs between deployments and the filters are
	// not trusted: every row is re-verified locally.
	variants := []inventory.ListOptions{
		{Expand: assetEmbedExpand, Limit: s.cfg.BroadLimit(), Status: "all"},
		{AssignedTo: userID, Expand: assetEmbedExpand, Status: "all"},
		{AssignedUser: userID, Expand: assetEmbedExpand, Status: "all"},
		{Expand: assetEmbedExpand, Limit: s.cfg.BroadLimit()},
	}
	for _, opts := range variants {
		assets, err := s.inv.ListAssets(ctx, opts)
		if err != nil {
			s.log.Debug("filter variant failed", zap.Int("user_id", userID), zap.Error(err))
			continue
		}
		collect(assets)
	}

	// Strategy 3: free-text search by display name. Checkout notes and
	// assignment metadata make assigned hardware searchable by holder.
	if user == nil {
		user, err = s.inv.GetUser(ctx, userID)
		if err != nil {
			s.log.Debug("user lookup for name search failed", zap.Int("user_id", userID), zap.Error(err))
		}
	}
	if user != nil && user.Name != "" {
		assets, err := s.inv.ListAssets(ctx, inventory.ListOptions{
			Search: user.Name,
			Expand: fullExpand,
			Limit:  100,
		})
		if err != nil {
			s.log.Debug("name search failed", zap.String("name", user.Name), zap.Error(err))
		} else {
			collect(assets)
		}
	}

	// Strategy 4: wide unfiltered scan. Catches assets with empty names
	// that the search endpoint never surfaces.
	if len(found) < broadenThreshold {
		assets, err := s.inv.ListAssets(ctx, inventory.ListOptions{
			Expand: fullExpand,
			Limit:  s.cfg.BroadLimit(),
			Status: "all",
		})
		if err != nil {
			s.log.Debug("broad scan failed", zap.Int("user_id", userID), zap.Error(err))
		} else {
			collect(assets)
		}
	}

	if len(found) > 0 {
		s.log.Debug("scan complete", zap.Int("user_id", userID), zap.Int("count", len(found)))
		return found, nil
	}

	// Strategy 5: bounded pagination sweep over the first pages only, for
	// latency protection when everything else came back empty.
	pageSize := s.cfg.PageSize()
	for page := 0; page < fallbackPages; page++ {
		assets, err := s.inv.ListAssets(ctx, inventory.ListOptions{
			Limit:  pageSize,
			Offset: page * pageSize,
			Expand: assetEmbedExpand,
		})
		if err != nil {
			s.log.Debug("pagination fallback failed", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(assets) == 0 {
			break
		}
		collect(assets)
	}

	s.log.Debug("scan complete", zap.Int("user_id", userID), zap.Int("count", len(found)))
	return found, nil
}
