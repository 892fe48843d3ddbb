package bayesridge

import (
	"errors"
	"fmt"

	"github.com/statkit/go-bayesridge/models"
)

var ErrNoTaus = errors.New("no prior variances provided to sweep with")

// Options configures a sweep of Bayesian ridge fits by specifying the assumed
// noise variance and the grid of prior variances to evaluate.
type Options struct {
	// SigmaSquared is the assumed noise variance of the response, shared by every
	// fit in the sweep. Must be strictly positive.
	SigmaSquared float64 `json:"sigma_squared"`

	// Taus is the grid of prior variances to fit with. Each must be strictly positive.
	Taus []float64 `json:"taus"`

	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool `json:"fit_intercept"`

	// Parallelization sets how many fits to run in parallel. More will increase
	// memory and compute usage.
	Parallelization int `json:"parallelization"`
}

// Validate runs basic validation on sweep options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}

	if !(o.SigmaSquared > 0) {
		return nil, models.ErrNonPositiveNoiseVariance
	}
	if len(o.Taus) == 0 {
		return nil, ErrNoTaus
	}
	for i, tau := range o.Taus {
		if !(tau > 0) {
			return nil, fmt.Errorf("at index %d, %w", i, models.ErrNonPositivePriorVariance)
		}
	}
	if o.Parallelization == 0 || o.Parallelization > len(o.Taus) {
		o.Parallelization = len(o.Taus)
	}
	return o, nil
}

// NewDefaultOptions returns a default set of sweep options with a log-spaced
// prior variance grid
func NewDefaultOptions() *Options {
	return &Options{
		SigmaSquared:    models.DefaultNoiseVariance,
		Taus:            []float64{1e-3, 1e-2, 1e-1, 1, 1e1, 1e2, 1e3},
		FitIntercept:    true,
		Parallelization: 1,
	}
}

func (o *Options) newRidgeOptions(tau float64) *models.BayesianRidgeOptions {
	return &models.BayesianRidgeOptions{
		SigmaSquared: o.SigmaSquared,
		Tau:          tau,
		FitIntercept: o.FitIntercept,
	}
}
