package customprices

import (
	"context"
	"fmt"

	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// CacheInvalidator bumps the shared price version after bulk deletes.
type CacheInvalidator interface {
	BumpVersion(ctx context.Context) error
}

// Service exposes the admin maintenance operations on custom prices.
type Service interface {
	ClearAll(ctx context.Context) (int64, error)
	ClearForCustomer(ctx context.Context, customerID int64) error
	ListForCustomer(ctx context.Context, customerID int64) ([]CustomerPrice, error)
}

// CustomerPrice is the API-facing shape of one entry.
type CustomerPrice struct {
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo   Repository
	Cache  CacheInvalidator
	Logger *logger.Logger
}

type service struct {
	repo  Repository
	cache CacheInvalidator
	logg  *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, cache: params.Cache, logg: params.Logger}, nil
}

// ClearAll removes every custom price entry and returns how many existed
// before the wipe.
func (s *service) ClearAll(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting custom prices")
	}
	if err := s.repo.ClearAll(ctx); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing custom prices")
	}
	s.bumpCache(ctx)
	s.logg.Info(s.logg.WithField(ctx, "removed", count), "cleared all custom prices")
	return count, nil
}

func (s *service) ClearForCustomer(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.repo.ClearForCustomer(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing customer prices")
	}
	s.bumpCache(ctx)
	s.logg.Info(s.logg.WithCustomerID(ctx, customerID), "cleared custom prices for customer")
	return nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]CustomerPrice, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	entries, err := s.repo.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customer prices")
	}
	result := make([]CustomerPrice, 0, len(entries))
	for _, entry := range entries {
		result = append(result, CustomerPrice{SKU: entry.SKU, Price: entry.Price.String()})
	}
	return result, nil
}

func (s *service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.BumpVersion(ctx); err != nil {
		s.logg.Error(ctx, "bumping price cache version", err)
	}
}
