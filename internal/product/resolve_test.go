package product

import (
	"context"
	"testing"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
	"github.com/listfy/listfy/internal/logging"
)

// stubLookup counts calls and returns a canned response or error.
type stubLookup struct {
	calls int
	resp  *LookupResponse
	err   error
}

func (s *stubLookup) Lookup(_ context.Context, _ string) (*LookupResponse, error) {
	s.calls++
	return s.resp, s.err
}

// stubCache is a fixed in-memory cache.
type stubCache map[string]list.CacheEntry

func (c stubCache) CachedProduct(barcode string) (list.CacheEntry, bool) {
	entry, ok := c[barcode]
	return entry, ok
}

func TestResolve_InvalidBarcode(t *testing.T) {
	remote := &stubLookup{}
	r := NewResolver(nil, remote, logging.Discard())

	for _, barcode := range []string{"7622210", "07622210994487", "1234567a", ""} {
		_, err := r.Resolve(context.Background(), barcode)
		if !errors.Is(err, errors.ErrValidation) {
			t.Errorf("Resolve(%q) error = %v, want VALIDATION", barcode, err)
		}
	}
	if remote.calls != 0 {
		t.Errorf("remote calls = %d, want 0 for invalid barcodes", remote.calls)
	}
}

func TestResolve_CacheHitSkipsRemote(t *testing.T) {
	cache := stubCache{
		"3017620422003": {
			DisplayName: "Nutella",
			UnitValue:   3.49,
			Details:     &list.ProductDetails{Barcode: "3017620422003"},
		},
	}
	remote := &stubLookup{resp: &LookupResponse{Status: 1, Product: &Product{Name: "should not be used"}}}
	r := NewResolver(cache, remote, logging.Discard())

	res, err := r.Resolve(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if remote.calls != 0 {
		t.Errorf("remote calls = %d, want 0 on cache hit", remote.calls)
	}
	if !res.FromCache {
		t.Error("FromCache = false, want true")
	}
	if res.DisplayName != "Nutella" || res.UnitValue != 3.49 {
		t.Errorf("resolution = %+v, want cached values verbatim", res)
	}
}

func TestResolve_CacheMissCallsRemoteOnce(t *testing.T) {
	kcal := 539.0
	remote := &stubLookup{resp: &LookupResponse{
		Status: 1,
		Product: &Product{
			NamePT:     "Nutella",
			Brands:     "Ferrero",
			Quantity:   "400 g",
			ImageURL:   "https://images.example/nutella.jpg",
			Nutriments: Nutriments{EnergyKcal: &kcal},
		},
	}}
	r := NewResolver(stubCache{}, remote, logging.Discard())

	res, err := r.Resolve(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
	if res.FromCache {
		t.Error("FromCache = true, want false")
	}
	if res.DisplayName != "Nutella" {
		t.Errorf("DisplayName = %q", res.DisplayName)
	}
	if res.Details == nil || res.Details.Barcode != "3017620422003" {
		t.Fatalf("Details = %+v, want barcode filled in", res.Details)
	}
	if res.Details.Brand != "Ferrero" || res.Details.PackageQuantity != "400 g" {
		t.Errorf("Details = %+v", res.Details)
	}
	if res.Details.Nutrition == nil || *res.Details.Nutrition.Calories != 539 {
		t.Errorf("Nutrition = %+v, want calories 539", res.Details.Nutrition)
	}
}

func TestResolve_RemoteNotFound(t *testing.T) {
	remote := &stubLookup{resp: &LookupResponse{Status: 0, StatusVerbose: "product not found"}}
	r := NewResolver(stubCache{}, remote, logging.Discard())

	_, err := r.Resolve(context.Background(), "12345678")
	if !errors.Is(err, errors.ErrProductNotFound) {
		t.Errorf("Resolve() error = %v, want PRODUCT_NOT_FOUND", err)
	}
}

func TestResolve_RemoteUnavailable(t *testing.T) {
	remote := &stubLookup{err: errors.NewRemoteUnavailable(nil)}
	r := NewResolver(stubCache{}, remote, logging.Discard())

	_, err := r.Resolve(context.Background(), "12345678")
	if !errors.Is(err, errors.ErrRemoteUnavailable) {
		t.Errorf("Resolve() error = %v, want REMOTE_UNAVAILABLE", err)
	}
}

func TestResolve_NameFallbackToBarcode(t *testing.T) {
	remote := &stubLookup{resp: &LookupResponse{Status: 1, Product: &Product{}}}
	r := NewResolver(stubCache{}, remote, logging.Discard())

	res, err := r.Resolve(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.DisplayName != "Product 12345678" {
		t.Errorf("DisplayName = %q, want Product 12345678", res.DisplayName)
	}
	if res.Details.Nutrition != nil {
		t.Error("Nutrition should be nil when no facts are reported")
	}
}
