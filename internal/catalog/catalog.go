// Package catalog holds the static equipment offering. It is loaded once at
// process start and never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Include is a single item bundled in a package. CoachNote marks items whose
// details (jersey number) are agreed with the coach.
type Include struct {
	Label     string `json:"label"`
	CoachNote bool   `json:"coachNote,omitempty"`
}

// Package is a pre-defined equipment bundle sold at a fixed price.
type Package struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Blurb      string    `json:"blurb,omitempty"`
	Includes   []Include `json:"includes"`
}

// Extra is an optional add-on. A nil Sizes list means no size is collected
// for the item.
type Extra struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	PriceCents int64    `json:"priceCents"`
	Sizes      []string `json:"sizes,omitempty"`
}

// HasSizes reports whether the extra requires a size selection.
func (e Extra) HasSizes() bool {
	return len(e.Sizes) > 0
}

// ValidSize reports whether s is drawn from the extra's own variant list.
func (e Extra) ValidSize(s string) bool {
	for _, v := range e.Sizes {
		if v == s {
			return true
		}
	}
	return false
}

// Catalog is the complete immutable offering plus the size lists for the
// three package size fields.
type Catalog struct {
	Packages    []Package `json:"packages"`
	Extras      []Extra   `json:"extras"`
	JerseySizes []string  `json:"jerseySizes"`
	ShirtSizes  []string  `json:"shirtSizes"`
	HoodieSizes []string  `json:"hoodieSizes"`
}

var apparelSizes = []string{"110cm", "122cm", "134cm", "146cm", "158cm", "S", "M", "L", "XL", "2XL", "3XL"}

// Default returns the built-in club catalog.
func Default() *Catalog {
	return &Catalog{
		Packages: []Package{
			{
				ID:         "A",
				Name:       "Paket oprema Dinamo",
				PriceCents: 11000,
				Blurb:      "Osnovni komplet za mlađe uzraste.",
				Includes: []Include{
					{Label: "2 majice"},
					{Label: "1 hoodica"},
					{Label: "1 hlače"},
					{Label: "1 double face dres", CoachNote: true},
				},
			},
			{
				ID:         "B",
				Name:       "Paket oprema plus Dinamo",
				PriceCents: 18000,
				Blurb:      "Prošireni komplet za mlađe uzraste.",
				Includes: []Include{
					{Label: "4 majice"},
					{Label: "2 hoodice"},
					{Label: "1 hlače"},
					{Label: "1 double face dres", CoachNote: true},
				},
			},
		},
		Extras: []Extra{
			{ID: "E_SHIRTS", Label: "+2 majice", PriceCents: 2000, Sizes: apparelSizes},
			{ID: "E_HOODIE_BLUE", Label: "Hoodica plava", PriceCents: 4500, Sizes: apparelSizes},
			{ID: "E_HOODIE_BLACK", Label: "Hoodica crna", PriceCents: 4500, Sizes: apparelSizes},
			{ID: "E_BACKPACK", Label: "Ruksak", PriceCents: 3500},
			{ID: "E_WINTER_HAT", Label: "Zimska kapa", PriceCents: 800},
		},
		JerseySizes: append(append([]string{}, apparelSizes...), "4XL"),
		ShirtSizes:  apparelSizes,
		HoodieSizes: apparelSizes,
	}
}

// Load reads a catalog override from a JSON file with the same shape as
// Default. Startup-only.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Packages) == 0 {
		return nil, fmt.Errorf("catalog %s defines no packages", path)
	}
	return &c, nil
}

// PackageByID looks up a package; nil when absent.
func (c *Catalog) PackageByID(id string) *Package {
	for i := range c.Packages {
		if c.Packages[i].ID == id {
			return &c.Packages[i]
		}
	}
	return nil
}

// ExtraByID looks up an extra; nil when absent.
func (c *Catalog) ExtraByID(id string) *Extra {
	for i := range c.Extras {
		if c.Extras[i].ID == id {
			return &c.Extras[i]
		}
	}
	return nil
}

// ExtraOrder returns the extra ids in catalog order.
func (c *Catalog) ExtraOrder() []string {
	out := make([]string, len(c.Extras))
	for i, e := range c.Extras {
		out[i] = e.ID
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ValidJerseySize reports whether s is a permitted jersey size.
func (c *Catalog) ValidJerseySize(s string) bool { return contains(c.JerseySizes, s) }

// ValidShirtSize reports whether s is a permitted shirt size.
func (c *Catalog) ValidShirtSize(s string) bool { return contains(c.ShirtSizes, s) }

// ValidHoodieSize reports whether s is a permitted hoodie size.
func (c *Catalog) ValidHoodieSize(s string) bool { return contains(c.HoodieSizes, s) }
