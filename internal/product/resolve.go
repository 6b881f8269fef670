package product

import (
	"context"
	"log/slog"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
)

// Cache is the read side of the user-confirmed barcode cache.
// Implemented by the store; the resolver never writes to it.
type Cache interface {
	CachedProduct(barcode string) (list.CacheEntry, bool)
}

// Resolution is the outcome of a successful barcode resolution,
// ready to hand to the store's add-or-merge operation.
type Resolution struct {
	DisplayName string               `json:"display_name"`
	UnitValue   float64              `json:"unit_value"`
	Details     *list.ProductDetails `json:"details,omitempty"`

	// FromCache reports whether the resolution came from the local
	// cache without a remote call.
	FromCache bool `json:"from_cache,omitempty"`
}

// Resolver resolves scanned barcodes against the local cache first and
// the remote product database second. Stateless per call; safe for
// concurrent use.
type Resolver struct {
	cache  Cache
	client Lookup
	logger *slog.Logger
}

// NewResolver creates a resolver. cache may be nil when no cache exists.
func NewResolver(cache Cache, client Lookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cache: cache, client: client, logger: logger}
}

// Resolve turns a scanned code into a display name plus metadata.
// Returns VALIDATION for malformed barcodes, PRODUCT_NOT_FOUND for a
// clean remote miss, and REMOTE_UNAVAILABLE for transport failures.
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*Resolution, error) {
	if !ValidBarcode(barcode) {
		return nil, errors.NewValidation("barcode must be 8 to 13 numeric digits")
	}

	if r.cache != nil {
		if entry, ok := r.cache.CachedProduct(barcode); ok {
			return &Resolution{
				DisplayName: entry.DisplayName,
				UnitValue:   entry.UnitValue,
				Details:     entry.Details,
				FromCache:   true,
			}, nil
		}
	}

	resp, err := r.client.Lookup(ctx, barcode)
	if err != nil {
		r.logger.Warn("remote product lookup failed", "barcode", barcode, "error", err)
		return nil, err
	}
	if !resp.Found() {
		r.logger.Info("barcode has no product record", "barcode", barcode, "status_verbose", resp.StatusVerbose)
		return nil, errors.NewProductNotFound(barcode)
	}

	return &Resolution{
		DisplayName: FallbackName(resp.Product, barcode),
		Details:     detailsFromProduct(resp.Product, barcode),
	}, nil
}

// detailsFromProduct maps the remote payload onto the item metadata bag.
func detailsFromProduct(p *Product, barcode string) *list.ProductDetails {
	d := &list.ProductDetails{
		Barcode:         barcode,
		Brand:           p.Brands,
		PackageQuantity: p.Quantity,
		ImageRef:        p.ImageURL,
		Ingredients:     p.Ingredients,
		Categories:      p.Categories,
	}
	n := p.Nutriments
	if n.EnergyKcal != nil || n.Fat != nil || n.Carbohydrates != nil || n.Proteins != nil {
		d.Nutrition = &list.Nutrition{
			Calories:      n.EnergyKcal,
			Fat:           n.Fat,
			Carbohydrates: n.Carbohydrates,
			Protein:       n.Proteins,
		}
	}
	return d
}
