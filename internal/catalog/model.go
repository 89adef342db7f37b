// Package catalog manages the product catalog. A product is a common
// record plus exactly one detail variant, tire or auto, selected by the
// catalog kind of its category.
package catalog

import "github.com/tyrebase/tyrebase/internal/masterdata/categories"

type Product struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	CategoryID   int64                  `json:"categoryId"`
	CategoryKind categories.CatalogKind `json:"categoryKind"`
	UnitID       *int64                 `json:"unitId,omitempty"`
	Tire         *TireDetail            `json:"tire,omitempty"`
	Auto         *AutoDetail            `json:"auto,omitempty"`
}

// TireDetail is the tire variant. Brand and model reference the tire
// reference tables; their names are denormalized onto the struct for
// display and name derivation.
type TireDetail struct {
	BrandID      int64  `json:"brandId"`
	BrandName    string `json:"brandName"`
	ModelID      int64  `json:"modelId"`
	ModelName    string `json:"modelName"`
	Size         string `json:"size"`
	SpeedIndexID int64  `json:"speedIndexId"`
	LoadIndexID  int64  `json:"loadIndexId"`
	IsXL         bool   `json:"isXl"`
	IsRunFlat    bool   `json:"isRunFlat"`
}

// AutoDetail is the generic auto-part variant. Brand and model are free
// text, not references.
type AutoDetail struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	SubcategoryID int64  `json:"subcategoryId"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search     string
	CategoryID int64
	Limit      int
	Offset     int
}
