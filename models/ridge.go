package models

import (
	"fmt"
	"math"

	mat_ "github.com/statkit/go-bayesridge/mat"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultNoiseVariance = 1.0
	DefaultPriorVariance = 1.0
)

// BayesianRidgeOptions represents input options to fit the Bayesian ridge regression
type BayesianRidgeOptions struct {
	// SigmaSquared is the assumed noise variance of the response. Must be strictly positive.
	SigmaSquared float64

	// Tau is the prior variance placed on every coefficient. Smaller values shrink the
	// posterior mean toward zero; as Tau grows the estimate converges to OLS. Must be
	// strictly positive.
	Tau float64

	// FitIntercept adds a constant 1.0 feature as the first column if set to true. The
	// intercept is regularized identically to the slope coefficients.
	FitIntercept bool
}

// Validate runs basic validation on Bayesian ridge options
func (b *BayesianRidgeOptions) Validate() (*BayesianRidgeOptions, error) {
	if b == nil {
		b = NewDefaultBayesianRidgeOptions()
	}

	if !(b.SigmaSquared > 0) {
		return nil, ErrNonPositiveNoiseVariance
	}
	if !(b.Tau > 0) {
		return nil, ErrNonPositivePriorVariance
	}
	return b, nil
}

// NewDefaultBayesianRidgeOptions returns a default set of Bayesian ridge options
func NewDefaultBayesianRidgeOptions() *BayesianRidgeOptions {
	return &BayesianRidgeOptions{
		SigmaSquared: DefaultNoiseVariance,
		Tau:          DefaultPriorVariance,
		FitIntercept: true,
	}
}

// BayesianRidgeRegression computes the posterior mean of the regression weights under a
// Gaussian likelihood with known noise variance and a zero-mean isotropic Gaussian prior,
// coefficients = (XᵀX/σ² + I/τ)⁻¹ Xᵀy/σ². The solve factorizes the regularized moment
// matrix with a Cholesky decomposition rather than forming the inverse.
type BayesianRidgeRegression struct {
	opt *BayesianRidgeOptions

	design *mat.Dense
	target []float64
	fitted []float64

	coef      []float64
	intercept float64
}

// NewBayesianRidgeRegression initializes a Bayesian ridge model ready for fitting
func NewBayesianRidgeRegression(opt *BayesianRidgeOptions) (*BayesianRidgeRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &BayesianRidgeRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. The possibly intercept-augmented
// design matrix, response, coefficients, and fitted values are retained and retrievable
// after a successful fit.
func (b *BayesianRidgeRegression) Fit(x, y mat.Matrix) error {
	x, yArr, err := b.fitValidate(x, y)
	if err != nil {
		return err
	}
	m, n := x.Dims()

	var gram mat.Dense
	gram.Mul(x.T(), x)

	// A = XᵀX/σ² + I/τ is symmetric positive definite for any finite positive τ
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gram.At(i, j) / b.opt.SigmaSquared
			if i == j {
				v += 1.0 / b.opt.Tau
			}
			sym.SetSym(i, j, v)
		}
	}

	chol := new(mat.Cholesky)
	if ok := chol.Factorize(sym); !ok {
		return fmt.Errorf("cholesky factorization failed, %w", ErrSingularMoments)
	}

	yVec := mat.NewVecDense(m, yArr)
	var moment mat.VecDense
	moment.MulVec(x.T(), yVec)
	moment.ScaleVec(1.0/b.opt.SigmaSquared, &moment)

	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &moment); err != nil {
		return fmt.Errorf("unable to solve for posterior mean, %w", ErrSingularMoments)
	}

	beta := make([]float64, n)
	for i := 0; i < n; i++ {
		beta[i] = w.AtVec(i)
		if math.IsNaN(beta[i]) || math.IsInf(beta[i], 0) {
			return fmt.Errorf("non-finite coefficient at %d, %w", i, ErrSingularMoments)
		}
	}

	var fittedVec mat.VecDense
	fittedVec.MulVec(x, &w)
	fitted := make([]float64, m)
	for i := 0; i < m; i++ {
		fitted[i] = fittedVec.AtVec(i)
	}

	design := new(mat.Dense)
	design.CloneFrom(x)

	b.design = design
	b.target = yArr
	b.fitted = fitted

	if b.opt.FitIntercept {
		b.intercept = beta[0]
		b.coef = beta[1:]
		return nil
	}
	b.coef = beta
	return nil
}

func (b *BayesianRidgeRegression) fitValidate(x, y mat.Matrix) (mat.Matrix, []float64, error) {
	if b.opt == nil {
		return nil, nil, ErrNoOptions
	}
	if x == nil {
		return nil, nil, ErrNoTrainingMatrix
	}
	if y == nil {
		return nil, nil, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return nil, nil, fmt.Errorf("training data has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	if b.opt.FitIntercept {
		x = mat_.WithIntercept(x)
	}

	yArr := mat.Col(nil, 0, y)
	return x, yArr, nil
}

// Predict using the Bayesian ridge model, applying the same intercept-augmentation
// convention used at fit time
func (b *BayesianRidgeRegression) Predict(x mat.Matrix) ([]float64, error) {
	if b.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := b.coef
	if b.opt.FitIntercept {
		coef = append([]float64{b.intercept}, b.coef...)
		x = mat_.WithIntercept(x)
	}
	n := len(coef)

	_, xn := x.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, n, ErrFeatureLenMismatch)
	}

	xT := x.T()
	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, xT)
	return res.RawRowView(0), nil
}

// Score computes the coefficient of determination of the prediction
func (b *BayesianRidgeRegression) Score(x, y mat.Matrix) (float64, error) {
	if b.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := b.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	score := stat.RSquaredFrom(res, ySlice, nil)
	if math.IsNaN(score) {
		score = 1.0
	}

	return score, nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (b *BayesianRidgeRegression) Intercept() float64 {
	return b.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (b *BayesianRidgeRegression) Coef() []float64 {
	c := make([]float64, len(b.coef))
	copy(c, b.coef)
	return c
}

// FittedValues returns the in-sample predictions computed during the last fit
func (b *BayesianRidgeRegression) FittedValues() []float64 {
	f := make([]float64, len(b.fitted))
	copy(f, b.fitted)
	return f
}

// Design returns the possibly intercept-augmented design matrix used in the last fit
func (b *BayesianRidgeRegression) Design() mat.Matrix {
	return b.design
}

// Target returns the response vector used in the last fit
func (b *BayesianRidgeRegression) Target() []float64 {
	t := make([]float64, len(b.target))
	copy(t, b.target)
	return t
}
