package bayesridge

// Model represents a serializeable format of a sweep storing the options,
// predictor names, and per prior variance fit results
type Model struct {
	Options *Options `json:"options"`
	Names   []string `json:"names,omitempty"`
	Results *Results `json:"results"`
}
