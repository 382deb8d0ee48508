// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"context"
	"sync"

	"github.com/mercatushq/mercatus/internal/models"
)

// Mock is an in-memory API implementation for tests. Each method delegates
// to the corresponding Fn field when set; otherwise it returns data from
// the backing maps. Call counts are tracked per method.
type Mock struct {
	mu sync.Mutex

	Places     map[int]*models.Place
	Users      map[int]*User
	Page       *models.PlacesPage
	Categories []models.Term
	Regions    []models.Term
	Cities     []models.Term

	FetchPageFn     func(ctx context.Context, page, perPage int, category string) (*models.PlacesPage, error)
	GetPlaceFn      func(ctx context.Context, id int) (*models.Place, error)
	GetUserFn       func(ctx context.Context, id int) (*User, error)
	GetCategoriesFn func(ctx context.Context) ([]models.Term, error)
	GetRegionsFn    func(ctx context.Context) ([]models.Term, error)
	GetCitiesFn     func(ctx context.Context) ([]models.Term, error)

	Calls map[string]int
}

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{
		Places: make(map[int]*models.Place),
		Users:  make(map[int]*User),
		Calls:  make(map[string]int),
	}
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
}

// CallCount returns how many times the named method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// FetchPage implements API.
func (m *Mock) FetchPage(ctx context.Context, page, perPage int, category string) (*models.PlacesPage, error) {
	m.record("FetchPage")
	if m.FetchPageFn != nil {
		return m.FetchPageFn(ctx, page, perPage, category)
	}
	if m.Page != nil {
		return m.Page, nil
	}
	empty := models.EmptyPage(page, perPage)
	return &empty, nil
}

// GetPlace implements API.
func (m *Mock) GetPlace(ctx context.Context, id int) (*models.Place, error) {
	m.record("GetPlace")
	if m.GetPlaceFn != nil {
		return m.GetPlaceFn(ctx, id)
	}
	if p, ok := m.Places[id]; ok {
		return p, nil
	}
	return nil, &UpstreamError{StatusCode: 404, Message: "place not found"}
}

// GetUser implements API.
func (m *Mock) GetUser(ctx context.Context, id int) (*User, error) {
	m.record("GetUser")
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, &UpstreamError{StatusCode: 404, Message: "user not found"}
}

// GetCategories implements API.
func (m *Mock) GetCategories(ctx context.Context) ([]models.Term, error) {
	m.record("GetCategories")
	if m.GetCategoriesFn != nil {
		return m.GetCategoriesFn(ctx)
	}
	return m.Categories, nil
}

// GetRegions implements API.
func (m *Mock) GetRegions(ctx context.Context) ([]models.Term, error) {
	m.record("GetRegions")
	if m.GetRegionsFn != nil {
		return m.GetRegionsFn(ctx)
	}
	return m.Regions, nil
}

// GetCities implements API.
func (m *Mock) GetCities(ctx context.Context) ([]models.Term, error) {
	m.record("GetCities")
	if m.GetCitiesFn != nil {
		return m.GetCitiesFn(ctx)
	}
	return m.Cities, nil
}
