package models

// Product is a catalog item. The catalog is reference data: it is read at
// startup and on demand, never mutated by this service.
type Product struct {
	Key              string  `json:"key"` // stable identifier, e.g. "gir500"
	Name             string  `json:"name"`
	SizeLabel        string  `json:"size_label"`
	DefaultUnitPrice float64 `json:"default_unit_price"`
}
