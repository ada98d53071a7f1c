// Package metrics provides the evaluation metrics reported by the hybrid
// classifier: accuracy and the mean / standard-error reduction used across
// evaluation folds.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stylo-ml/stylo/pkg/errors"
)

// AccuracyScore returns the fraction of positions where yTrue and yPred
// agree.
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyScoreInts is the integer-label form of AccuracyScore. The
// predicted slice may contain any value for abstained samples; they simply
// count against accuracy unless they equal the true label.
func AccuracyScoreInts(yTrue, yPred []int) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScoreInts", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("AccuracyScoreInts", n, len(yPred), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// MeanStdErr returns the mean of values and the standard error of that
// mean: the sample standard deviation divided by sqrt(n). A single value
// has zero standard error.
func MeanStdErr(values []float64) (mean, stderr float64, err error) {
	n := len(values)
	if n == 0 {
		return 0, 0, errors.NewValueError("MeanStdErr", "empty slice")
	}

	mean = stat.Mean(values, nil)
	if n == 1 {
		return mean, 0, nil
	}
	stderr = math.Sqrt(stat.Variance(values, nil) / float64(n))
	return mean, stderr, nil
}
