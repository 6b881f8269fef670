package list

// List represents a single shopping (or task) list and owns its items.
type List struct {
	// ID is a ULID that uniquely identifies this list
	ID string `json:"id"`

	// Name is the user-facing list name (non-empty, user-editable)
	Name string `json:"name"`

	// Items holds the list's items, newest first
	Items []*Item `json:"items"`

	// Archived hides the list from the active-selection pool without
	// destroying its data
	Archived bool `json:"archived,omitempty"`
}

// Item represents one entry in a list.
type Item struct {
	ID string `json:"id"`

	// Text is the display name; may be overwritten by barcode
	// resolution or a manual edit
	Text string `json:"text"`

	// Quantity is always >= 1
	Quantity int `json:"quantity"`

	// UnitValue is a non-negative, currency-agnostic amount
	UnitValue float64 `json:"unit_value"`

	// TotalValue is derived: quantity * unit_value. Never authoritative
	// on its own; call Recompute after touching either input.
	TotalValue float64 `json:"total_value"`

	Purchased bool `json:"purchased"`

	// Details carries product metadata from a barcode lookup (optional)
	Details *ProductDetails `json:"details,omitempty"`
}

// ProductDetails is the metadata bag captured from a barcode lookup.
// Every field is optional; items exist fine without any of this.
type ProductDetails struct {
	Barcode         string            `json:"barcode,omitempty"`
	Brand           string            `json:"brand,omitempty"`
	PackageQuantity string            `json:"package_quantity,omitempty"`
	ImageRef        string            `json:"image_ref,omitempty"`
	Ingredients     string            `json:"ingredients,omitempty"`
	Categories      string            `json:"categories,omitempty"`
	Nutrition       *Nutrition        `json:"nutrition,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

// Nutrition holds per-product nutritional facts. Pointers distinguish
// "not reported" from zero.
type Nutrition struct {
	Calories      *float64 `json:"energy_kcal,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Protein       *float64 `json:"proteins,omitempty"`
}

// CacheEntry is a user-confirmed barcode cache record.
type CacheEntry struct {
	DisplayName string          `json:"display_name"`
	UnitValue   float64         `json:"unit_value"`
	Details     *ProductDetails `json:"details,omitempty"`
}

// Recompute clamps quantity to the floor of 1 and rederives TotalValue.
func (i *Item) Recompute() {
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	i.TotalValue = float64(i.Quantity) * i.UnitValue
}

// Barcode returns the item's barcode, or "" when it has none.
func (i *Item) Barcode() string {
	if i.Details == nil {
		return ""
	}
	return i.Details.Barcode
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	if i.Details != nil {
		d := *i.Details
		if i.Details.Nutrition != nil {
			n := *i.Details.Nutrition
			d.Nutrition = &n
		}
		if i.Details.Extra != nil {
			d.Extra = make(map[string]string, len(i.Details.Extra))
			for k, v := range i.Details.Extra {
				d.Extra[k] = v
			}
		}
		c.Details = &d
	}
	return &c
}

// Clone returns a deep copy of the list and its items.
func (l *List) Clone() *List {
	c := *l
	c.Items = make([]*Item, len(l.Items))
	for idx, it := range l.Items {
		c.Items[idx] = it.Clone()
	}
	return &c
}

// FindItem returns the item with the given id, or nil.
func (l *List) FindItem(itemID string) *Item {
	for _, it := range l.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// FindByBarcode returns the first item carrying the given barcode, or nil.
func (l *List) FindByBarcode(barcode string) *Item {
	if barcode == "" {
		return nil
	}
	for _, it := range l.Items {
		if it.Barcode() == barcode {
			return it
		}
	}
	return nil
}

// FindByText returns the first item whose text matches case-insensitively, or nil.
func (l *List) FindByText(text string) *Item {
	norm := Normalize(text)
	for _, it := range l.Items {
		if Normalize(it.Text) == norm {
			return it
		}
	}
	return nil
}

// Total sums the total values of all items.
func (l *List) Total() float64 {
	var sum float64
	for _, it := range l.Items {
		sum += it.TotalValue
	}
	return sum
}

// AllPurchased reports whether the list is non-empty and every item is
// marked purchased. An empty list is never "complete".
func (l *List) AllPurchased() bool {
	if len(l.Items) == 0 {
		return false
	}
	for _, it := range l.Items {
		if !it.Purchased {
			return false
		}
	}
	return true
}
