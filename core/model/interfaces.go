// Package model provides the capability interfaces shared by stylo's
// estimators and transformers.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on X with targets y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that predict on new data.
type Predictor interface {
	// Predict returns one prediction per row of X as an n×1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// BinaryClassifier is the opaque capability the hybrid ensembles are
// written against. Predict answers 0 or 1 per row; the ensemble that
// created the classifier owns it and never shares it across folds.
type BinaryClassifier interface {
	Fitter
	Predictor
}

// DecisionScorer is an optional extension reporting the real-valued
// decision margin behind each binary prediction.
type DecisionScorer interface {
	// DecisionFunction returns one signed margin per row of X.
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)
}

// Transformer is the interface for stateless-after-fit data transforms.
type Transformer interface {
	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transform to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit then Transform on the same data.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
