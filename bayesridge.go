// Package bayesridge fits closed-form Bayesian ridge regressions across a grid of
// prior variances and visualizes how the prior shrinks the coefficient estimates.
package bayesridge

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/statkit/go-bayesridge/dataset"
	mat_ "github.com/statkit/go-bayesridge/mat"
	"github.com/statkit/go-bayesridge/models"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoResults        = errors.New("sweep has not been fit yet")
	ErrNoOptionsInModel = errors.New("no options set in model")
	ErrNoResultsInModel = errors.New("no results set in model")
	ErrUnknownTau       = errors.New("prior variance was not part of the sweep")
)

// Sweep fits one Bayesian ridge regression per configured prior variance. Fits are
// independent of each other and run in parallel bounded by the parallelization option.
type Sweep struct {
	opt *Options

	names   []string
	results *Results
}

// New creates a new instance of a Sweep using the provided options. If no options
// are provided a default is used.
func New(opt *Options) (*Sweep, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Sweep{
		opt: opt,
	}, nil
}

// NewFromModel creates a new instance of a Sweep from a pre-existing model. This
// should be generated from a previous sweep call to Model() and can be used for
// immediate predictions skipping the training step.
func NewFromModel(model Model) (*Sweep, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if model.Results == nil || len(model.Results.Fits) == 0 {
		return nil, ErrNoResultsInModel
	}
	opt, err := model.Options.Validate()
	if err != nil {
		return nil, err
	}
	return &Sweep{
		opt:     opt,
		names:   model.Names,
		results: model.Results,
	}, nil
}

// Fit runs one Bayesian ridge fit per prior variance over the input training data
func (s *Sweep) Fit(x [][]float64, y []float64) error {
	if len(y) == 0 {
		return models.ErrNoTargetMatrix
	}
	xMx, err := mat_.NewDenseFromArray(x)
	if err != nil {
		return fmt.Errorf("unable to create training matrix, %w", err)
	}
	yMx := mat.NewDense(len(y), 1, y)
	return s.fit(xMx, yMx)
}

// FitTable runs the sweep over a tabular dataset, carrying the predictor names
// through to the results for labeling.
func (s *Sweep) FitTable(td *dataset.Table) error {
	x, y, err := td.Mats()
	if err != nil {
		return fmt.Errorf("unable to create training matrices, %w", err)
	}
	s.names = append([]string(nil), td.Names...)
	return s.fit(x, y)
}

func (s *Sweep) fit(x, y mat.Matrix) error {
	fits := make([]FitResult, len(s.opt.Taus))
	errs := make([]error, len(s.opt.Taus))

	sem := make(chan struct{}, s.opt.Parallelization)
	var wg sync.WaitGroup
	for i, tau := range s.opt.Taus {
		sem <- struct{}{}
		wg.Add(1)

		go func(i int, tau float64) {
			defer func() {
				wg.Done()
				<-sem
			}()
			fit, err := s.runRidge(tau, x, y)
			if err != nil {
				slog.Error("unable to fit bayesian ridge regression", "tau", tau, "error", err.Error())
				errs[i] = fmt.Errorf("prior variance %g, %w", tau, err)
				return
			}
			fits[i] = fit
		}(i, tau)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	sort.Slice(fits, func(i, j int) bool {
		return fits[i].Tau < fits[j].Tau
	})
	s.results = &Results{Fits: fits}
	return nil
}

func (s *Sweep) runRidge(tau float64, x, y mat.Matrix) (FitResult, error) {
	reg, err := models.NewBayesianRidgeRegression(s.opt.newRidgeOptions(tau))
	if err != nil {
		return FitResult{}, err
	}
	if err := reg.Fit(x, y); err != nil {
		return FitResult{}, err
	}
	score, err := reg.Score(x, y)
	if err != nil {
		return FitResult{}, err
	}
	return FitResult{
		Tau:          tau,
		Intercept:    reg.Intercept(),
		Coefficients: reg.Coef(),
		Fitted:       reg.FittedValues(),
		R2:           score,
	}, nil
}

// Results returns the per prior variance fit results ordered by increasing prior variance
func (s *Sweep) Results() *Results {
	return s.results
}

// PredictAt applies the coefficients fit at the given prior variance to a new
// design matrix using the same intercept convention as fit time
func (s *Sweep) PredictAt(tau float64, x [][]float64) ([]float64, error) {
	if s.results == nil {
		return nil, ErrNoResults
	}

	var fit *FitResult
	for i := range s.results.Fits {
		if s.results.Fits[i].Tau == tau {
			fit = &s.results.Fits[i]
			break
		}
	}
	if fit == nil {
		return nil, fmt.Errorf("prior variance %g, %w", tau, ErrUnknownTau)
	}

	xMx, err := mat_.NewDenseFromArray(x)
	if err != nil {
		return nil, fmt.Errorf("unable to create design matrix, %w", err)
	}

	coef := fit.Coefficients
	var xFull mat.Matrix = xMx
	if s.opt.FitIntercept {
		coef = append([]float64{fit.Intercept}, fit.Coefficients...)
		xFull = mat_.WithIntercept(xMx)
	}
	n := len(coef)

	_, xn := xFull.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, n, models.ErrFeatureLenMismatch)
	}

	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, xFull.T())
	return res.RawRowView(0), nil
}

// Names returns the predictor labels associated with the coefficients, if any
// were provided at fit time
func (s *Sweep) Names() []string {
	return s.names
}

// Model generates a serializeable representation of the sweep options and fit
// results. This can be used to initialize a new Sweep for immediate predictions
// skipping the training step.
func (s *Sweep) Model() (Model, error) {
	if s.results == nil {
		return Model{}, ErrNoResults
	}
	return Model{
		Options: s.opt,
		Names:   s.names,
		Results: s.results,
	}, nil
}
