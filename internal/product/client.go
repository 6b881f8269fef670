package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/listfy/listfy/internal/errors"
)

// Lookup defines the remote product-lookup contract. Implemented by
// *Client and by test stubs.
type Lookup interface {
	Lookup(ctx context.Context, barcode string) (*LookupResponse, error)
}

// Ensure Client implements Lookup at compile time.
var _ Lookup = (*Client)(nil)

// LookupResponse is the product database's response envelope:
// a status flag plus a product object when found.
type LookupResponse struct {
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose,omitempty"`
	Code          string   `json:"code,omitempty"`
	Product       *Product `json:"product,omitempty"`
}

// Found reports whether the response carries a product record.
func (r *LookupResponse) Found() bool {
	return r != nil && r.Status == 1 && r.Product != nil
}

// Product mirrors the fields requested from the product database.
type Product struct {
	NamePT      string     `json:"product_name_pt,omitempty"`
	NameEN      string     `json:"product_name_en,omitempty"`
	Name        string     `json:"product_name,omitempty"`
	GenericName string     `json:"generic_name,omitempty"`
	Brands      string     `json:"brands,omitempty"`
	Quantity    string     `json:"quantity,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Ingredients string     `json:"ingredients_text,omitempty"`
	Categories  string     `json:"categories,omitempty"`
	Nutriments  Nutriments `json:"nutriments,omitempty"`
}

// Nutriments holds the nutritional facts subset the app displays.
type Nutriments struct {
	EnergyKcal    *float64 `json:"energy_kcal,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Proteins      *float64 `json:"proteins,omitempty"`
}

// Client talks to an Open Food Facts compatible product API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, userAgent string) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", base.Scheme)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}, nil
}

// Lookup fetches the product record for a barcode.
// A 404 or an explicit status-0 payload both come back as a not-found
// response (Found() == false); transport failures and other non-2xx
// statuses are REMOTE_UNAVAILABLE errors.
func (c *Client) Lookup(ctx context.Context, barcode string) (*LookupResponse, error) {
	rel := &url.URL{Path: fmt.Sprintf("/api/v2/product/%s.json", barcode)}
	u := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewRemoteUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &LookupResponse{Status: 0, StatusVerbose: "product not found", Code: barcode}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewRemoteUnavailable(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewRemoteUnavailable(fmt.Errorf("decode response: %w", err))
	}

	return &payload, nil
}
