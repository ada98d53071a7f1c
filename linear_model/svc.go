// Package linear_model implements the linear classifiers used as binary
// sub-estimators by the hybrid ensembles.
package linear_model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/pkg/errors"
)

// LinearSVC is a linear support vector classifier trained by full-batch
// subgradient descent on the L2-regularized hinge loss.
//
// It is a binary classifier: Fit expects exactly two distinct labels and
// Predict answers one of them per row. Labels are kept in ascending order,
// the lower mapping to the negative side of the decision function and the
// higher to the positive side.
type LinearSVC struct {
	model.BaseEstimator

	// Hyperparameters
	c           float64 // inverse regularization strength
	tol         float64 // stopping tolerance on the gradient norm
	maxIter     int
	randomState int64

	// Model parameters
	coef_      []float64
	intercept_ float64
	classes_   [2]int
	nFeatures_ int
	nIter_     int

	rand *rand.Rand
}

// LinearSVCOption is a functional option for LinearSVC.
type LinearSVCOption func(*LinearSVC)

// NewLinearSVC creates a LinearSVC with sklearn-compatible defaults
// (C=1.0, tol=1e-4, max_iter=1000).
func NewLinearSVC(opts ...LinearSVCOption) *LinearSVC {
	svc := &LinearSVC{
		c:           1.0,
		tol:         1e-4,
		maxIter:     1000,
		randomState: -1,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.randomState >= 0 {
		svc.rand = rand.New(rand.NewSource(svc.randomState))
	} else {
		svc.rand = rand.New(rand.NewSource(rand.Int63()))
	}

	return svc
}

// WithSVCC sets the inverse regularization strength.
func WithSVCC(c float64) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.c = c
	}
}

// WithSVCTol sets the stopping tolerance.
func WithSVCTol(tol float64) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.tol = tol
	}
}

// WithSVCMaxIter sets the maximum number of iterations.
func WithSVCMaxIter(maxIter int) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.maxIter = maxIter
	}
}

// WithSVCRandomState sets the random seed for weight initialization.
func WithSVCRandomState(seed int64) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.randomState = seed
		if seed >= 0 {
			svc.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// Fit trains the classifier on X and the binary label column y.
func (svc *LinearSVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("LinearSVC.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LinearSVC.Fit", "y must be a column vector")
	}
	if nSamples == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LinearSVC.Fit")
	}

	if err := svc.extractClasses(y); err != nil {
		return err
	}
	svc.nFeatures_ = nFeatures

	// Signed targets: lower class -1, higher class +1.
	signs := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == svc.classes_[1] {
			signs[i] = 1.0
		} else {
			signs[i] = -1.0
		}
	}

	svc.coef_ = make([]float64, nFeatures)
	svc.intercept_ = 0
	for j := range svc.coef_ {
		svc.coef_[j] = svc.rand.NormFloat64() * 0.01
	}

	lambda := 1.0 / (svc.c * float64(nSamples))
	baseLearningRate := 1.0

	converged := false
	for iter := 0; iter < svc.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			margin := svc.intercept_
			for j := 0; j < nFeatures; j++ {
				margin += X.At(i, j) * svc.coef_[j]
			}
			// Hinge subgradient: only margin violators contribute.
			if signs[i]*margin < 1 {
				gradIntercept -= signs[i]
				for j := 0; j < nFeatures; j++ {
					gradWeights[j] -= signs[i] * X.At(i, j)
				}
			}
		}

		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda*svc.coef_[j]
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range svc.coef_ {
			svc.coef_[j] -= learningRate * gradWeights[j]
		}
		svc.intercept_ -= learningRate * gradIntercept

		if err := errors.CheckNumericalStability("LinearSVC.Fit", svc.coef_, iter); err != nil {
			return err
		}

		svc.nIter_ = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < svc.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LinearSVC", svc.nIter_, ""))
	}

	svc.SetFitted()
	return nil
}

// extractClasses records the two distinct labels in ascending order.
func (svc *LinearSVC) extractClasses(y mat.Matrix) error {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}
	if len(classMap) != 2 {
		return errors.NewValueError("LinearSVC.Fit", "exactly 2 classes required")
	}

	first := true
	var lo, hi int
	for class := range classMap {
		if first {
			lo, hi = class, class
			first = false
			continue
		}
		if class < lo {
			lo = class
		}
		if class > hi {
			hi = class
		}
	}
	svc.classes_ = [2]int{lo, hi}
	return nil
}

// Predict classifies each row of X, answering one of the two fitted labels.
func (svc *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := svc.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	predictions := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) >= 0 {
			predictions.Set(i, 0, float64(svc.classes_[1]))
		} else {
			predictions.Set(i, 0, float64(svc.classes_[0]))
		}
	}
	return predictions, nil
}

// DecisionFunction returns the signed distance to the separating
// hyperplane for each row of X.
func (svc *LinearSVC) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !svc.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", "DecisionFunction")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != svc.nFeatures_ {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", svc.nFeatures_, nFeatures, 1)
	}

	scores := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		margin := svc.intercept_
		for j := 0; j < nFeatures; j++ {
			margin += X.At(i, j) * svc.coef_[j]
		}
		scores.SetVec(i, margin)
	}
	return scores, nil
}

// Classes returns the two fitted labels in ascending order.
func (svc *LinearSVC) Classes() [2]int {
	return svc.classes_
}

// Coef returns the learned weight vector.
func (svc *LinearSVC) Coef() []float64 {
	return svc.coef_
}

// Intercept returns the learned intercept.
func (svc *LinearSVC) Intercept() float64 {
	return svc.intercept_
}

// NIter returns the number of iterations run by the last Fit.
func (svc *LinearSVC) NIter() int {
	return svc.nIter_
}
