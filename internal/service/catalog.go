package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/cache"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/offline"
)

// DefaultProductCacheTTL bounds how long a cached product list is served
// before hitting the backend again.
const DefaultProductCacheTTL = 30 * time.Second

// CatalogService serves the product catalog: live reads through a short-TTL
// cache, with the device snapshot as the only fallback when the live fetch
// fails. Every successful live fetch rewrites the snapshot wholesale.
type CatalogService struct {
	backend  backend.Backend
	snapshot *offline.ProductCache
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewCatalogService creates a catalog service. readCache may be nil.
func NewCatalogService(b backend.Backend, snapshot *offline.ProductCache, readCache cache.Cache) *CatalogService {
	if b == nil || snapshot == nil {
		return nil
	}
	return &CatalogService{
		backend:  b,
		snapshot: snapshot,
		cache:    readCache,
		cacheTTL: DefaultProductCacheTTL,
	}
}

// ListProducts returns the tenant's catalog. stale is true when the list was
// served from the offline snapshot because the live fetch failed; stale
// figures are still used for the checkout pre-check.
func (s *CatalogService) ListProducts(ctx context.Context, tenantID string) (products []model.Product, stale bool, err error) {
	cacheKey := "products:" + tenantID

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []model.Product
			if json.Unmarshal(data, &cached) == nil {
				return cached, false, nil
			}
		}
	}

	products, err = s.backend.ListProducts(ctx, tenantID)
	if err != nil {
		log.Printf("[Catalog] Live fetch failed, serving snapshot: %v", err)
		return s.snapshot.Load(ctx), true, nil
	}

	if err := s.snapshot.Save(ctx, products); err != nil {
		log.Printf("[Catalog] Failed to refresh snapshot: %v", err)
	}
	if s.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return products, false, nil
}

// CreateProduct adds a product to the tenant's catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, p *model.Product) error {
	if err := s.backend.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.TenantID)
	return nil
}

// UpdateProduct updates a product row.
func (s *CatalogService) UpdateProduct(ctx context.Context, p model.Product) error {
	if err := s.backend.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.TenantID)
	return nil
}

// GetProfile returns the tenant's store settings, degrading to usable
// defaults when the backend is unreachable so checkout and receipts keep
// working offline.
func (s *CatalogService) GetProfile(ctx context.Context, tenantID string) model.StoreProfile {
	profile, err := s.backend.GetProfile(ctx, tenantID)
	if err != nil {
		log.Printf("[Catalog] Profile read failed, using defaults: %v", err)
		return model.StoreProfile{
			TenantID:       tenantID,
			StoreName:      "StockFlow",
			CurrencySymbol: "GH₵",
			TaxRate:        0,
		}
	}
	return profile
}

func (s *CatalogService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "products:"+tenantID)
	}
}
