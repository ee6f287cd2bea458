package model

type FeatureValue struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type ExtractResponse struct {
	PassId   string         `json:"pass_id"`
	Voices   []string       `json:"voices"`
	Features []FeatureValue `json:"features"`
}

type FeatureDescription struct {
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
