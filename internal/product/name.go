package product

import (
	"fmt"
	"strings"
)

// FallbackName resolves a display name from a product payload.
// First non-empty wins: localized name, English name, plain name,
// "<brand> <generic name>" when both are present, brand alone,
// generic name alone, then "Product <barcode>".
func FallbackName(p *Product, barcode string) string {
	if p != nil {
		candidates := []string{
			p.NamePT,
			p.NameEN,
			p.Name,
		}
		for _, c := range candidates {
			if name := strings.TrimSpace(c); name != "" {
				return name
			}
		}

		brand := strings.TrimSpace(p.Brands)
		generic := strings.TrimSpace(p.GenericName)
		switch {
		case brand != "" && generic != "":
			return brand + " " + generic
		case brand != "":
			return brand
		case generic != "":
			return generic
		}
	}
	return fmt.Sprintf("Product %s", barcode)
}
