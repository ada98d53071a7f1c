package hybrid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/core/parallel"
	"github.com/stylo-ml/stylo/pkg/errors"
)

// Factory produces a fresh, untrained binary estimator. The ensemble that
// calls it owns every estimator it creates; estimators are never reused
// across folds.
type Factory func() model.BinaryClassifier

// OVREnsemble holds one trained binary estimator per class. Estimator c
// distinguishes class Classes()[c] from all other classes, and the slice
// order defines which class each phase-1 vote maps to.
type OVREnsemble struct {
	classes    []int
	estimators []model.BinaryClassifier
}

// FitOVR trains one estimator per class on X, each against the binary
// target "is this row's label the class". Class order is the sorted set
// of distinct labels in y. Any sub-fit failure aborts the whole build:
// a partial ensemble cannot vote.
func FitOVR(X mat.Matrix, y []int, factory Factory) (*OVREnsemble, error) {
	nSamples, _ := X.Dims()
	if nSamples != len(y) {
		return nil, errors.NewDimensionError("FitOVR", nSamples, len(y), 0)
	}

	classes := distinctSorted(y)
	if len(classes) < 2 {
		return nil, errors.NewValueError("FitOVR", "at least 2 classes required")
	}

	ensemble := &OVREnsemble{
		classes:    classes,
		estimators: make([]model.BinaryClassifier, len(classes)),
	}

	// Each member trains on its own binary relabeling; nothing is shared,
	// so members fit in parallel.
	errs := make([]error, len(classes))
	parallel.Parallelize(len(classes), func(start, end int) {
		for c := start; c < end; c++ {
			target := mat.NewDense(nSamples, 1, nil)
			for i, label := range y {
				if label == classes[c] {
					target.Set(i, 0, 1)
				}
			}

			estimator := factory()
			if err := estimator.Fit(X, target); err != nil {
				errs[c] = errors.NewEstimatorFitError("one-vs-rest", fmt.Sprintf("class %d", classes[c]), err)
				continue
			}
			ensemble.estimators[c] = estimator
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return ensemble, nil
}

// Classes returns the ensemble's class order.
func (e *OVREnsemble) Classes() []int {
	return e.classes
}

// Classify runs the phase-1 decision rule over every row of X. A sample
// is assigned a class only when exactly one estimator votes for it; with
// zero or multiple positive votes the sample stays unclassified and its
// row index is returned in deferred, preserving row order, for phase 2.
//
// Only the count of positive votes matters here. No margins or scores are
// consulted: ambiguity defers, it never tie-breaks.
func (e *OVREnsemble) Classify(X mat.Matrix) (outcomes []Outcome, deferred []int, err error) {
	nSamples, _ := X.Dims()

	// Estimator-major: one Predict call per member over the whole batch.
	votes := make([]mat.Matrix, len(e.estimators))
	for c, estimator := range e.estimators {
		prediction, err := estimator.Predict(X)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "one-vs-rest predict for class %d", e.classes[c])
		}
		rows, _ := prediction.Dims()
		if rows != nSamples {
			return nil, nil, errors.NewDimensionError("OVREnsemble.Classify", nSamples, rows, 0)
		}
		votes[c] = prediction
	}

	outcomes = make([]Outcome, nSamples)
	for i := 0; i < nSamples; i++ {
		positive := 0
		assigned := -1
		for c := range e.estimators {
			if votes[c].At(i, 0) == 1 {
				positive++
				assigned = c
			}
		}

		if positive == 1 {
			outcomes[i] = Assigned(e.classes[assigned])
		} else {
			outcomes[i] = Unclassified()
			deferred = append(deferred, i)
		}
	}

	return outcomes, deferred, nil
}
