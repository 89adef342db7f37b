package subcategories

// Subcategory groups non-tire goods (oils, batteries, accessories).
type Subcategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
