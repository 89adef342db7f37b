package units

// Unit is a measurement unit attached to products (шт, комплект, л).
type Unit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
