package hybrid

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/core/parallel"
	"github.com/stylo-ml/stylo/pkg/errors"
)

// classPair is one unordered class pair (lo, hi) with lo < hi, where the
// indices refer to positions in the ensemble's class order.
type classPair struct {
	lo, hi int
}

// OVOEnsemble holds one trained binary estimator per unordered class
// pair, enumerated as (i, j) for i = 0..C-1, j = i+1..C-1 with a single
// running index. The enumeration order is load-bearing: prediction and
// training must walk the pairs identically or every tally is corrupted.
type OVOEnsemble struct {
	classes    []int
	pairs      []classPair
	estimators []model.BinaryClassifier
}

// FitOVO trains one estimator per class pair. The (i, j) estimator sees
// only the training rows labeled with class i or class j, relabeled i -> 0
// and j -> 1. Estimators must honor that convention on Predict: answering
// 0 votes for the lower-ordered class, 1 for the higher. An estimator
// whose label handling flips this silently flips every pairwise vote.
func FitOVO(X mat.Matrix, y []int, factory Factory) (*OVOEnsemble, error) {
	nSamples, nFeatures := X.Dims()
	if nSamples != len(y) {
		return nil, errors.NewDimensionError("FitOVO", nSamples, len(y), 0)
	}

	classes := distinctSorted(y)
	if len(classes) < 2 {
		return nil, errors.NewValueError("FitOVO", "at least 2 classes required")
	}

	// Fixed nested ascending enumeration, never a map.
	pairs := make([]classPair, 0, len(classes)*(len(classes)-1)/2)
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			pairs = append(pairs, classPair{lo: i, hi: j})
		}
	}

	ensemble := &OVOEnsemble{
		classes:    classes,
		pairs:      pairs,
		estimators: make([]model.BinaryClassifier, len(pairs)),
	}

	// Each pair trains on its own two-class row subset; fits are
	// independent and run in parallel.
	errs := make([]error, len(pairs))
	parallel.Parallelize(len(pairs), func(start, end int) {
		for k := start; k < end; k++ {
			pair := pairs[k]
			loClass := classes[pair.lo]
			hiClass := classes[pair.hi]

			var rows []int
			for i, label := range y {
				if label == loClass || label == hiClass {
					rows = append(rows, i)
				}
			}

			subset := mat.NewDense(len(rows), nFeatures, nil)
			target := mat.NewDense(len(rows), 1, nil)
			for ii, i := range rows {
				for j := 0; j < nFeatures; j++ {
					subset.Set(ii, j, X.At(i, j))
				}
				if y[i] == hiClass {
					target.Set(ii, 0, 1)
				}
			}

			estimator := factory()
			if err := estimator.Fit(subset, target); err != nil {
				errs[k] = errors.NewEstimatorFitError("one-vs-one", fmt.Sprintf("pair (%d,%d)", loClass, hiClass), err)
				continue
			}
			ensemble.estimators[k] = estimator
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
func (e *OVOEnsemble) Classes() []int {
	return e.classes
}

// Votes polls every pairwise estimator on the single sample x and returns
// the per-class tally, indexed by the ensemble's class order. The tally is
// zeroed per call; a prediction of 0 votes for the pair's lower-ordered
// class, 1 for the higher.
func (e *OVOEnsemble) Votes(x mat.Vector) ([]int, error) {
	row := mat.NewDense(1, x.Len(), nil)
	for j := 0; j < x.Len(); j++ {
		row.Set(0, j, x.AtVec(j))
	}

	tally := make([]int, len(e.classes))
	for k, pair := range e.pairs {
		prediction, err := e.estimators[k].Predict(row)
		if err != nil {
			return nil, errors.Wrapf(err, "one-vs-one predict for pair (%d,%d)", e.classes[pair.lo], e.classes[pair.hi])
		}
		if prediction.At(0, 0) == 0 {
			tally[pair.lo]++
		} else {
			tally[pair.hi]++
		}
	}
	return tally, nil
}

// ClassifyOne runs the phase-2 decision rule on a single sample: assign
// the class with the uniquely maximal vote tally, or abstain when the
// maximum is tied between two or more classes.
func (e *OVOEnsemble) ClassifyOne(x mat.Vector) (Outcome, error) {
	tally, err := e.Votes(x)
	if err != nil {
		return Unclassified(), err
	}

	best := 0
	ties := 0
	max := -1
	for c, votes := range tally {
		switch {
		case votes > max:
			max = votes
			best = c
			ties = 1
		case votes == max:
			ties++
		}
	}

	if ties > 1 {
		return Unclassified(), nil
	}
	return Assigned(e.classes[best]), nil
}

// distinctSorted returns the distinct labels of y in ascending order.
func distinctSorted(y []int) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}
