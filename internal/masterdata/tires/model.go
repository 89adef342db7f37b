package tires

// Brand is a tire manufacturer (Michelin, Grenlander).
type Brand struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models,omitempty"`
}

// Model is a tire model line belonging to exactly one brand.
// Model names are only unique within their brand.
type Model struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	BrandID int64  `json:"brandId"`
}

// SpeedIndex maps a speed rating code to its maximum speed.
type SpeedIndex struct {
	ID     int64  `json:"id"`
	Code   string `json:"code"`
	MaxKPH int    `json:"maxKph"`
}

// LoadIndex maps a load rating code to its maximum load per tire.
type LoadIndex struct {
	ID    int64   `json:"id"`
	Code  string  `json:"code"`
	MaxKG float64 `json:"maxKg"`
}
