package bayesridge

import (
	"bytes"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/statkit/go-bayesridge/dataset"
	"github.com/statkit/go-bayesridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// y = 1.0 + 2.0*trend + 5.0*workday with no noise so the weak prior fits recover
// the generating weights
func setupExampleTable() (*dataset.Table, error) {
	n := 96
	t := dataset.GenerateT(n, 24*time.Hour, time.Now)

	trend := dataset.GenerateLinearColumn(n, 0.1)
	workday := dataset.WorkdayColumn(t, dataset.DefaultUSCalendar())
	y := dataset.GenerateResponse(
		[]dataset.Column{trend, workday},
		[]float64{2.0, 5.0},
		1.0, 0.0,
	)

	return dataset.New([]string{"trend", "workday"}, dataset.Rows(trend, workday), y)
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *Options
		err      error
		expected *Options
	}{
		"nil": {nil, nil, NewDefaultOptions()},
		"valid": {
			&Options{
				SigmaSquared:    1.0,
				Taus:            []float64{0.1, 1.0},
				FitIntercept:    true,
				Parallelization: 2,
			}, nil,
			&Options{
				SigmaSquared:    1.0,
				Taus:            []float64{0.1, 1.0},
				FitIntercept:    true,
				Parallelization: 2,
			},
		},
		"parallelization capped to grid": {
			&Options{
				SigmaSquared:    1.0,
				Taus:            []float64{0.1, 1.0},
				Parallelization: 10,
			}, nil,
			&Options{
				SigmaSquared:    1.0,
				Taus:            []float64{0.1, 1.0},
				Parallelization: 2,
			},
		},
		"invalid noise variance": {
			&Options{SigmaSquared: 0.0, Taus: []float64{1.0}},
			models.ErrNonPositiveNoiseVariance, nil,
		},
		"no taus": {
			&Options{SigmaSquared: 1.0},
			ErrNoTaus, nil,
		},
		"invalid tau": {
			&Options{SigmaSquared: 1.0, Taus: []float64{1.0, -2.0}},
			models.ErrNonPositivePriorVariance, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestSweepFitTable(t *testing.T) {
	td, err := setupExampleTable()
	require.Nil(t, err)

	s, err := New(&Options{
		SigmaSquared:    1.0,
		Taus:            []float64{1e6, 1e-2, 1.0},
		FitIntercept:    true,
		Parallelization: 3,
	})
	require.Nil(t, err)
	require.Nil(t, s.FitTable(td))

	res := s.Results()
	require.NotNil(t, res)
	require.Len(t, res.Fits, 3)

	taus := res.Taus()
	assert.True(t, sort.Float64sAreSorted(taus))

	for _, fit := range res.Fits {
		assert.Len(t, fit.Coefficients, 2)
		assert.Len(t, fit.Fitted, len(td.Y))
	}

	// weakest prior recovers the generating weights
	last := res.Fits[len(res.Fits)-1]
	assert.InDelta(t, 1.0, last.Intercept, 1e-3)
	assert.InDeltaSlice(t, []float64{2.0, 5.0}, last.Coefficients, 1e-3)
	assert.InDelta(t, 1.0, last.R2, 1e-6)

	assert.Equal(t, []string{"trend", "workday"}, s.Names())
}

func TestSweepPredictAt(t *testing.T) {
	td, err := setupExampleTable()
	require.Nil(t, err)

	s, err := New(&Options{
		SigmaSquared: 1.0,
		Taus:         []float64{1e-2, 1.0},
		FitIntercept: true,
	})
	require.Nil(t, err)

	_, err = s.PredictAt(1.0, td.X)
	assert.ErrorIs(t, err, ErrNoResults)

	require.Nil(t, s.FitTable(td))

	predicted, err := s.PredictAt(1.0, td.X)
	require.Nil(t, err)

	var fitted []float64
	for _, fit := range s.Results().Fits {
		if fit.Tau == 1.0 {
			fitted = fit.Fitted
		}
	}
	require.NotNil(t, fitted)
	assert.InDeltaSlice(t, fitted, predicted, 1e-9)

	_, err = s.PredictAt(42.0, td.X)
	assert.ErrorIs(t, err, ErrUnknownTau)
}

func TestSweepFitSingular(t *testing.T) {
	s, err := New(&Options{
		SigmaSquared: 1.0,
		Taus:         []float64{math.Inf(1)},
		FitIntercept: false,
	})
	require.Nil(t, err)

	err = s.Fit([][]float64{{1, 1}, {2, 2}, {3, 3}}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, models.ErrSingularMoments)
	assert.Nil(t, s.Results())
}

func TestModelRoundTrip(t *testing.T) {
	td, err := setupExampleTable()
	require.Nil(t, err)

	s, err := New(&Options{
		SigmaSquared: 1.0,
		Taus:         []float64{1e-2, 1.0, 1e6},
		FitIntercept: true,
	})
	require.Nil(t, err)
	require.Nil(t, s.FitTable(td))

	m, err := s.Model()
	require.Nil(t, err)

	out, err := json.Marshal(m)
	require.Nil(t, err)

	var restoredModel Model
	require.Nil(t, json.Unmarshal(out, &restoredModel))

	restored, err := NewFromModel(restoredModel)
	require.Nil(t, err)
	assert.Equal(t, s.Names(), restored.Names())

	expected, err := s.PredictAt(1.0, td.X)
	require.Nil(t, err)
	predicted, err := restored.PredictAt(1.0, td.X)
	require.Nil(t, err)
	assert.InDeltaSlice(t, expected, predicted, 1e-12)
}

func TestNewFromModel(t *testing.T) {
	testData := map[string]struct {
		model Model
		err   error
	}{
		"no options": {
			Model{}, ErrNoOptionsInModel,
		},
		"no results": {
			Model{Options: NewDefaultOptions()}, ErrNoResultsInModel,
		},
		"empty results": {
			Model{Options: NewDefaultOptions(), Results: &Results{}}, ErrNoResultsInModel,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewFromModel(td.model)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestPlotShrinkage(t *testing.T) {
	td, err := setupExampleTable()
	require.Nil(t, err)

	s, err := New(nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, s.PlotShrinkage(&buf), ErrNoResults)

	require.Nil(t, s.FitTable(td))

	require.Nil(t, s.PlotShrinkage(&buf))
	assert.Contains(t, buf.String(), "Coefficient Shrinkage")
	assert.Contains(t, buf.String(), "workday")
}
