package service

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
)

type CategoryService struct {
	api ports.Dispatcher
	log zerolog.Logger
}

func NewCategoryService(api ports.Dispatcher, log zerolog.Logger) *CategoryService {
	return &CategoryService{api: api, log: log}
}

type categoryResponse struct {
	envelope
	Category *wireCategory `json:"category"`
}

// FetchCategories accepts either a bare array or {"categories": [...]}.
func (s *CategoryService) FetchCategories(ctx context.Context) (*domain.CategoryList, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodGet,
		Path:     "categories",
		Auth:     true,
		Fallback: "Failed to fetch categories",
	})
	if err != nil {
		return nil, err
	}

	var items []wireCategory
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := decode("fetch categories", raw, &items); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Categories []wireCategory `json:"categories"`
		}
		if err := decode("fetch categories", raw, &wrapped); err != nil {
			return nil, err
		}
		items = wrapped.Categories
	}

	return &domain.CategoryList{Categories: toCategories(items), Raw: raw}, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.CategoryResult, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPost,
		Path:     "categories",
		Body:     in,
		Auth:     true,
		Fallback: "Failed to create category",
	})
	if err != nil {
		return nil, err
	}

	var resp categoryResponse
	if err := decode("create category", raw, &resp); err != nil {
		return nil, err
	}
	res := &domain.CategoryResult{Success: resp.succeeded(), Message: resp.Message, Raw: raw}
	if resp.Category != nil {
		c := toCategory(*resp.Category)
		res.Category = &c
	}
	return res, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) (*domain.Ack, error) {
	path, err := resourcePath("categories", id)
	if err != nil {
		return nil, err
	}
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodDelete,
		Path:     path,
		Route:    "categories/:id",
		Auth:     true,
		Fallback: "Failed to delete category",
	})
	if err != nil {
		return nil, err
	}
	return ack("delete category", raw)
}
