package directory

import (
	"context"

	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// UserAssetReport is the operator-facing view of one user's equipment,
// produced by a fuzzy name lookup.
type UserAssetReport struct {
	User       inventory.User   `json:"user"`
	Assets     []AssetView      `json:"assets"`
	Total      int              `json:"total_assets"`
	MatchScore float64          `json:"match_score"`
	Alternates []inventory.User `json:"other_matches,omitempty"`
}

// AssetView pairs an asset with its derived inventory display number.
type AssetView struct {
	inventory.Asset
	InventoryNumber string `json:"inventory_display_number"`
}

// LookupAssetsByUserName resolves the name fuzzily, then lists the best
// match's equipment through the user-assets endpoint. Unlike the cascade
// scan, this view includes historical assignments the API reports.
func (s *Service) LookupAssetsByUserName(ctx context.Context, name string) (*UserAssetReport, error) {
	res, err := s.ResolveUser(ctx, name)
	if err != nil {
		return nil, err
	}

	best := res.Best.User
	assets, err := s.inv.UserAssets(ctx, best.ID)
	if err != nil {
		s.log.Error("failed to list assets for matched user",
			zap.Int("user_id", best.ID), zap.Error(err))
		return nil, err
	}

	report := &UserAssetReport{
		User:       best,
		Assets:     s.views(assets),
		Total:      len(assets),
		MatchScore: res.Best.Score,
	}
	for _, alt := range res.Alternates {
		report.Alternates = append(report.Alternates, alt.User)
	}
	return report, nil
}

// LookupAssetByNumber finds an asset by exact tag first, then by derived
// inventory number over a bounded search.
func (s *Service) LookupAssetByNumber(ctx context.Context, identifier string) (*AssetView, error) {
	asset, err := s.inv.AssetByTag(ctx, identifier)
	if err == nil {
		v := s.view(*asset)
		return &v, nil
	}
	if !inventory.IsNotFound(err) {
		return nil, err
	}

	results, err := s.inv.ListAssets(ctx, inventory.ListOptions{Search: identifier, Limit: 50})
	if err != nil {
		return nil, err
	}
	for _, a := range results {
		if inventory.DisplayNumber(&a, s.cfg.FieldCandidates()) == identifier {
			v := s.view(a)
			return &v, nil
		}
	}
	return nil, &inventory.APIError{Kind: inventory.KindNotFound, Message: "asset not found"}
}

func (s *Service) view(a inventory.Asset) AssetView {
	return AssetView{
		Asset:           a,
		InventoryNumber: inventory.DisplayNumber(&a, s.cfg.FieldCandidates()),
	}
}

func (s *Service) views(assets []inventory.Asset) []AssetView {
	out := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, s.view(a))
	}
	return out
}
