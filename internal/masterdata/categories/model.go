package categories

// CatalogKind classifies a category for the product catalog. The kind is
// resolved once from configuration when the category is created and stored
// alongside it; call sites never re-derive it from the name.
type CatalogKind string

const (
	// KindTire marks the tire category: products carry tire details.
	KindTire CatalogKind = "TIRE"
	// KindAuto marks every other category: products carry auto-part details.
	KindAuto CatalogKind = "AUTO"
)

// Category represents a product category.
type Category struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Kind CatalogKind `json:"kind"`
}
