package product

// ValidBarcode reports whether s is a syntactically valid barcode:
// 8 to 13 numeric digits (EAN-8 through EAN-13).
func ValidBarcode(s string) bool {
	if len(s) < 8 || len(s) > 13 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
