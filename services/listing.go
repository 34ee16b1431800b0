package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
)

// ListingService runs the public opportunity listing.
type ListingService struct {
	config  core.ListingConfig
	storage core.OpportunityStorage
	logger  *zap.Logger
}

var _ core.OpportunityLister = (*ListingService)(nil)

func NewListingService(config core.ListingConfig, storage core.OpportunityStorage, logger *zap.Logger) *ListingService {
	defaults := core.DefaultListingConfig()
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = defaults.DefaultLimit
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = defaults.MaxLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{config: config, storage: storage, logger: logger}
}

// List returns one page of published opportunities. A nil viewer lists
// anonymously; the result shape is the same either way.
func (s *ListingService) List(ctx context.Context, params core.ListParams, viewer *core.ClientID) (*core.ListResult, error) {
	page, limit := s.config.Normalize(params)

	query := core.ListQuery{
		Filter: params.Filter,
		Viewer: viewer,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	opportunities, total, err := s.storage.ListOpportunities(ctx, query)
	if err != nil {
		s.logger.Error("listing query failed",
			zap.Int("page", page),
			zap.Int("limit", limit),
			zap.Bool("authenticated", viewer != nil),
			zap.Error(err),
		)
		return nil, core.NewQueryError("list opportunities", err)
	}
	if opportunities == nil {
		opportunities = []core.EnrichedOpportunity{}
	}

	return &core.ListResult{
		Opportunities: opportunities,
		Pagination: core.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: page*limit < total,
		},
	}, nil
}
