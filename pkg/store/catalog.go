package store

// Package is a water package available for purchase.
type Package struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// catalog is the fixed set of purchasable water packages.
var catalog = []Package{
	{
		ID:          "small",
		Name:        "Pure Water",
		Size:        "500ml",
		Price:       0.001,
		Description: "Perfect for personal hydration",
	},
	{
		ID:          "medium",
		Name:        "Family Pack",
		Size:        "1.5L",
		Price:       0.003,
		Description: "Great for small families",
	},
	{
		ID:          "large",
		Name:        "Party Pack",
		Size:        "5L",
		Price:       0.008,
		Description: "Perfect for gatherings",
	},
	{
		ID:          "jumbo",
		Name:        "Bulk Water",
		Size:        "20L",
		Price:       0.025,
		Description: "Best value for offices",
	},
}

// Catalog returns the purchasable packages. The returned slice is a copy.
func Catalog() []Package {
	out := make([]Package, len(catalog))
	copy(out, catalog)
	return out
}

// PackageByID returns the package with the given id.
func PackageByID(id string) (Package, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
