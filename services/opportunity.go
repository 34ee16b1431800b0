package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
)

type opportunityStore interface {
	core.OpportunityStorage
	core.CategoryStorage
}

// OpportunityService covers the single-opportunity actions and the
// category list.
type OpportunityService struct {
	storage opportunityStore
	logger  *zap.Logger
}

var _ core.OpportunityHandler = (*OpportunityService)(nil)

func NewOpportunityService(storage opportunityStore, logger *zap.Logger) *OpportunityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpportunityService{storage: storage, logger: logger}
}

// Get returns one published opportunity, enriched for viewer, and counts
// the view.
func (s *OpportunityService) Get(ctx context.Context, id int64, viewer *core.ClientID) (*core.EnrichedOpportunity, error) {
	if id <= 0 {
		return nil, core.ErrInvalidID
	}
	return s.storage.GetOpportunity(ctx, id, viewer)
}

func (s *OpportunityService) Apply(ctx context.Context, clientID core.ClientID, in core.ApplyInput) (*core.Application, error) {
	if in.OpportunityID <= 0 {
		return nil, core.ErrInvalidID
	}
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return nil, core.ErrMessageRequired
	}

	app, err := s.storage.Apply(ctx, clientID, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.Int64("client_id", int64(clientID)),
		zap.Int64("opportunity_id", in.OpportunityID),
	)
	return app, nil
}

func (s *OpportunityService) ToggleBookmark(ctx context.Context, clientID core.ClientID, opportunityID int64) (bool, error) {
	if opportunityID <= 0 {
		return false, core.ErrInvalidID
	}
	return s.storage.ToggleBookmark(ctx, clientID, opportunityID)
}

func (s *OpportunityService) Categories(ctx context.Context) ([]core.Category, error) {
	categories, err := s.storage.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []core.Category{}
	}
	return categories, nil
}
