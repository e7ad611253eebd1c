package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
)

// Overview is everything the home screen shows at once.
type Overview struct {
	Profile    *domain.UserProfile
	Dashboard  domain.Dashboard
	Categories []domain.Category
}

// OverviewService loads the cached profile, the dashboard and the categories
// concurrently.
type OverviewService struct {
	sessions     ports.SessionStore
	transactions ports.TransactionService
	categories   ports.CategoryService
}

func NewOverviewService(sessions ports.SessionStore, transactions ports.TransactionService, categories ports.CategoryService) *OverviewService {
	return &OverviewService{sessions: sessions, transactions: transactions, categories: categories}
}

// Load fails with the first profile or category error. The dashboard part is
// caller-safe and never fails on its own.
func (s *OverviewService) Load(ctx context.Context) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.sessions.ReadProfile(gctx)
		out.Profile = profile
		return err
	})
	g.Go(func() error {
		out.Dashboard = s.transactions.GetDashboardData(gctx)
		return nil
	})
	g.Go(func() error {
		list, err := s.categories.FetchCategories(gctx)
		if err != nil {
			return err
		}
		out.Categories = list.Categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
