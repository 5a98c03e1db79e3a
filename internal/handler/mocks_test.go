package handler

import (
	"context"

	"stockflow-pos-api/internal/model"
)

// stubBackend implements backend.Backend for handler tests.
type stubBackend struct {
	products   []model.Product
	listErr    error
	sales      []model.Sale
	salesErr   error
	profile    model.StoreProfile
	profileErr error
	insertErr  error
	inserted   []model.Sale
}

func (s *stubBackend) Ping(_ context.Context) error { return nil }

func (s *stubBackend) ListProducts(_ context.Context, _ string) ([]model.Product, error) {
	return s.products, s.listErr
}

func (s *stubBackend) CreateProduct(_ context.Context, p *model.Product) error {
	p.ID = 1
	return nil
}

func (s *stubBackend) UpdateProduct(_ context.Context, _ model.Product) error { return nil }

func (s *stubBackend) GetProductStock(_ context.Context, _ int64) (int, error) { return 0, nil }

func (s *stubBackend) UpdateProductStock(_ context.Context, _ int64, _ int) error { return nil }

func (s *stubBackend) DecrementStockAtomic(_ context.Context, _ int64, _ int) error { return nil }

func (s *stubBackend) InsertSale(_ context.Context, sale model.Sale) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, sale)
	return nil
}

func (s *stubBackend) ListSales(_ context.Context, _ string, _ int) ([]model.Sale, error) {
	return s.sales, s.salesErr
}

func (s *stubBackend) GetProfile(_ context.Context, _ string) (model.StoreProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubBackend) ValidateLogin(_ context.Context, _, _ string) (model.StoreProfile, error) {
	return s.profile, s.profileErr
}
