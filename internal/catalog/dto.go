package catalog

import "strings"

// ProductInput carries a create or update request. Exactly one of Tire
// or Auto must be present, matching the category's catalog kind; the
// service enforces that, the validator only covers field shape.
type ProductInput struct {
	CategoryID int64      `json:"categoryId" validate:"required,gt=0"`
	UnitID     *int64     `json:"unitId" validate:"omitempty,gt=0"`
	Tire       *TireInput `json:"tire" validate:"omitempty"`
	Auto       *AutoInput `json:"auto" validate:"omitempty"`
}

// TireInput resolves brand and model either by id or by name with
// find-or-create semantics. Speed and load indices must already exist.
type TireInput struct {
	BrandID      *int64 `json:"brandId" validate:"omitempty,gt=0"`
	BrandName    string `json:"brandName" validate:"omitempty,min=2,max=60"`
	ModelID      *int64 `json:"modelId" validate:"omitempty,gt=0"`
	ModelName    string `json:"modelName" validate:"omitempty,min=1,max=80"`
	Size         string `json:"size" validate:"required,min=5,max=30"`
	SpeedIndexID int64  `json:"speedIndexId" validate:"required,gt=0"`
	LoadIndexID  int64  `json:"loadIndexId" validate:"required,gt=0"`
	IsXL         bool   `json:"isXl"`
	IsRunFlat    bool   `json:"isRunFlat"`
}

type AutoInput struct {
	Brand         string `json:"brand" validate:"required,min=1,max=80"`
	Model         string `json:"model" validate:"required,min=1,max=80"`
	SubcategoryID int64  `json:"subcategoryId" validate:"required,gt=0"`
}

func (in *ProductInput) normalize() {
	if in.Tire != nil {
		in.Tire.BrandName = strings.TrimSpace(in.Tire.BrandName)
		in.Tire.ModelName = strings.TrimSpace(in.Tire.ModelName)
		in.Tire.Size = strings.TrimSpace(in.Tire.Size)
	}
	if in.Auto != nil {
		in.Auto.Brand = strings.TrimSpace(in.Auto.Brand)
		in.Auto.Model = strings.TrimSpace(in.Auto.Model)
	}
}
