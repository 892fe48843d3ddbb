package bayesridge

// FitResult captures the posterior mean estimate of a single Bayesian ridge fit
// at one prior variance
type FitResult struct {
	Tau          float64   `json:"tau"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Fitted       []float64 `json:"fitted"`
	R2           float64   `json:"r2"`
}

// Results holds the per prior variance fit results of a sweep ordered by
// increasing prior variance
type Results struct {
	Fits []FitResult `json:"fits"`
}

// Taus returns the prior variance grid of the results in fit order
func (r *Results) Taus() []float64 {
	taus := make([]float64, 0, len(r.Fits))
	for _, fit := range r.Fits {
		taus = append(taus, fit.Tau)
	}
	return taus
}

// CoefficientPaths returns one series per coefficient tracking its value across
// the prior variance grid. Used for shrinkage visualization.
func (r *Results) CoefficientPaths() [][]float64 {
	if len(r.Fits) == 0 {
		return nil
	}
	n := len(r.Fits[0].Coefficients)
	paths := make([][]float64, n)
	for j := 0; j < n; j++ {
		paths[j] = make([]float64, len(r.Fits))
		for i, fit := range r.Fits {
			paths[j][i] = fit.Coefficients[j]
		}
	}
	return paths
}
