package directory

import (
	"context"

	"assetbot/core/inventory"

	"go.uber.org/zap"
)

// ErrNoMatch is returned when a name query resolves to nobody.
type ErrNoMatch struct {
	Query string
}

func (e *ErrNoMatch) Error() string {
	return "no users found matching '" + e.Query + "'"
}

// Service resolves people by fuzzy name and scans their assigned assets.
type Service struct {
	inv  inventory.Client
	cfg  inventory.Config
	log  *zap.Logger
	scan *scanner
}

// NewService creates a new directory service.
func NewService(inv inventory.Client, cfg inventory.Config, log *zap.Logger) *Service {
	return &Service{
		inv:  inv,
		cfg:  cfg,
		log:  log,
		scan: &scanner{inv: inv, cfg: cfg, log: log},
	}
}

const resolverFetchLimit = 50

// ResolveUser matches a free-text name query against the directory. The
// API's substring search supplies candidates; scoring and ordering happen
// locally.
func (s *Service) ResolveUser(ctx context.Context, query string) (*Resolution, error) {
	users, err := s.inv.SearchUsers(ctx, query, resolverFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, &ErrNoMatch{Query: query}
	}

	res, ok := resolve(rank(query, users))
	if !ok {
		s.log.Debug("no candidate passed scoring", zap.String("query", query))
		return nil, &ErrNoMatch{Query: query}
	}

	s.log.Debug("resolved user query",
		zap.String("query", query),
		zap.String("best", res.Best.User.Name),
		zap.Float64("score", res.Best.Score),
		zap.Int("alternates", len(res.Alternates)),
	)
	return res, nil
}

// AssetsAssignedTo returns the user's current equipment via the scan
// cascade, deduplicated by tag.
func (s *Service) AssetsAssignedTo(ctx context.Context, userID int) ([]AssetView, error) {
	assets, err := s.scan.assetsAssignedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(assets), nil
}
