package hybrid

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/metrics"
	"github.com/stylo-ml/stylo/pkg/errors"
	"github.com/stylo-ml/stylo/preprocessing"
)

// Config carries the evaluation parameters. The zero value is usable:
// unset fields fall back to the defaults below.
type Config struct {
	// Repetitions is the number of independent evaluation folds
	// (default 10).
	Repetitions int

	// TestFraction is the held-out share of each fold (default 0.35).
	TestFraction float64

	// FeatureFraction is the share of features kept by the per-fold
	// univariate selection (default 2/3).
	FeatureFraction float64

	// Seed makes the fold splits reproducible when nonzero.
	Seed uint64
}

const (
	// DefaultRepetitions is the default evaluation fold count.
	DefaultRepetitions = 10
	// DefaultTestFraction is the default held-out fraction per fold.
	DefaultTestFraction = 0.35
	// DefaultFeatureFraction is the default share of features kept per fold.
	DefaultFeatureFraction = 2.0 / 3.0
)

func (c Config) withDefaults() Config {
	if c.Repetitions == 0 {
		c.Repetitions = DefaultRepetitions
	}
	if c.TestFraction == 0 {
		c.TestFraction = DefaultTestFraction
	}
	if c.FeatureFraction == 0 {
		c.FeatureFraction = DefaultFeatureFraction
	}
	return c
}

// FoldMetrics holds the seven per-fold statistics. Within each phase the
// correct, incorrect and unclassified fractions sum to 1.
type FoldMetrics struct {
	Accuracy           float64
	CorrectPhase1      float64
	CorrectPhase2      float64
	IncorrectPhase1    float64
	IncorrectPhase2    float64
	UnclassifiedPhase1 float64
	UnclassifiedPhase2 float64
}

// Stat is a mean with its standard error across folds.
type Stat struct {
	Mean   float64
	StdErr float64
}

// Summary is the aggregate result of a full evaluation run: each of the
// seven fold statistics reduced to mean and standard error, plus the raw
// per-fold values.
type Summary struct {
	Accuracy           Stat
	CorrectPhase1      Stat
	CorrectPhase2      Stat
	IncorrectPhase1    Stat
	IncorrectPhase2    Stat
	UnclassifiedPhase1 Stat
	UnclassifiedPhase2 Stat

	Folds []FoldMetrics
}

// Evaluate runs the two-phase hybrid classifier through repeated
// stratified shuffle splits of (X, y) and reduces the per-fold statistics
// to mean and standard error.
//
// Per fold: split, rescale and select features on the training partition
// only, train fresh one-vs-rest and one-vs-one ensembles, run phase 1
// then phase 2 over the held-out partition, and score. Folds share no
// mutable state and run on independent goroutines; the reduction waits on
// all of them. Any fold failure aborts the whole run, because the
// standard error is only meaningful over the full fold count.
func Evaluate(X mat.Matrix, y []int, factory Factory, cfg Config) (*Summary, error) {
	cfg = cfg.withDefaults()

	nSamples, _ := X.Dims()
	if nSamples != len(y) {
		return nil, errors.NewDimensionError("Evaluate", nSamples, len(y), 0)
	}
	for i, label := range y {
		if label < 0 {
			return nil, errors.Newf("stylo: Evaluate: negative label %d at row %d", label, i)
		}
	}
	if factory == nil {
		return nil, errors.NewValueError("Evaluate", "estimator factory is required")
	}

	splitter := NewStratifiedShuffleSplit(cfg.Repetitions, cfg.TestFraction, cfg.Seed)
	folds, err := splitter.Split(y)
	if err != nil {
		return nil, err
	}

	results := make([]FoldMetrics, len(folds))
	errs := make([]error, len(folds))

	var wg sync.WaitGroup
	for f := range folds {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results[f], errs[f] = evaluateFold(X, y, folds[f], factory, cfg)
		}(f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return reduce(results)
}

// evaluateFold runs the full per-fold pipeline: preprocess, train both
// ensembles, phase 1, phase 2, score.
func evaluateFold(X mat.Matrix, y []int, fold Fold, factory Factory, cfg Config) (FoldMetrics, error) {
	xTrain, yTrain := subset(X, y, fold.Train)
	xTest, yTest := subset(X, y, fold.Test)

	// Transforms are fitted on the training partition only; the test
	// partition must never leak into them.
	scaler := preprocessing.NewMinMaxScalerDefault()
	xTrainScaled, err := scaler.FitTransform(xTrain)
	if err != nil {
		return FoldMetrics{}, err
	}
	xTestScaled, err := scaler.Transform(xTest)
	if err != nil {
		return FoldMetrics{}, err
	}

	_, nFeatures := xTrainScaled.Dims()
	k := int(cfg.FeatureFraction * float64(nFeatures))
	if k < 1 {
		k = 1
	}
	selector := preprocessing.NewSelectKBest(k)
	xTrainSel, err := selector.FitTransform(xTrainScaled, yTrain)
	if err != nil {
		return FoldMetrics{}, err
	}
	xTestSel, err := selector.Transform(xTestScaled)
	if err != nil {
		return FoldMetrics{}, err
	}

	ovr, err := FitOVR(xTrainSel, yTrain, factory)
	if err != nil {
		return FoldMetrics{}, err
	}
	ovo, err := FitOVO(xTrainSel, yTrain, factory)
	if err != nil {
		return FoldMetrics{}, err
	}

	outcomes, deferred, err := ovr.Classify(xTestSel)
	if err != nil {
		return FoldMetrics{}, err
	}
	correct1, incorrect1, unclassified1 := phaseFractions(outcomes, yTest)

	// Phase 2 sees only the samples phase 1 abstained on; assignments
	// from phase 1 are immutable.
	testDense := mat.DenseCopyOf(xTestSel)
	for _, i := range deferred {
		outcome, err := ovo.ClassifyOne(testDense.RowView(i))
		if err != nil {
			return FoldMetrics{}, err
		}
		outcomes[i] = outcome
	}
	correct2, incorrect2, unclassified2 := phaseFractions(outcomes, yTest)

	// Overall accuracy counts abstentions as misses, so it coincides
	// with the correct fraction after phase 2. Computed through the
	// metrics helper with an out-of-range sentinel for abstentions.
	yPred := make([]int, len(yTest))
	for i, outcome := range outcomes {
		if class, ok := outcome.Class(); ok {
			yPred[i] = class
		} else {
			yPred[i] = -1
		}
	}
	accuracy, err := metrics.AccuracyScoreInts(yTest, yPred)
	if err != nil {
		return FoldMetrics{}, err
	}

	return FoldMetrics{
		Accuracy:           accuracy,
		CorrectPhase1:      correct1,
		CorrectPhase2:      correct2,
		IncorrectPhase1:    incorrect1,
		IncorrectPhase2:    incorrect2,
		UnclassifiedPhase1: unclassified1,
		UnclassifiedPhase2: unclassified2,
	}, nil
}

// phaseFractions scores an outcome vector against the true labels. The
// three fractions sum to 1 by construction.
func phaseFractions(outcomes []Outcome, yTrue []int) (correct, incorrect, unclassified float64) {
	var nCorrect, nIncorrect, nUnclassified int
	for i, outcome := range outcomes {
		class, ok := outcome.Class()
		switch {
		case !ok:
			nUnclassified++
		case class == yTrue[i]:
			nCorrect++
		default:
			nIncorrect++
		}
	}
	n := float64(len(outcomes))
	return float64(nCorrect) / n, float64(nIncorrect) / n, float64(nUnclassified) / n
}

// subset copies the given rows of X and entries of y.
func subset(X mat.Matrix, y []int, indices []int) (*mat.Dense, []int) {
	_, cols := X.Dims()
	xSub := mat.NewDense(len(indices), cols, nil)
	ySub := make([]int, len(indices))
	for ii, i := range indices {
		for j := 0; j < cols; j++ {
			xSub.Set(ii, j, X.At(i, j))
		}
		ySub[ii] = y[i]
	}
	return xSub, ySub
}

// reduce collapses per-fold metrics into mean and standard error.
func reduce(folds []FoldMetrics) (*Summary, error) {
	collect := func(pick func(FoldMetrics) float64) (Stat, error) {
		values := make([]float64, len(folds))
		for i, fm := range folds {
			values[i] = pick(fm)
		}
		mean, stderr, err := metrics.MeanStdErr(values)
		if err != nil {
			return Stat{}, err
		}
		return Stat{Mean: mean, StdErr: stderr}, nil
	}

	summary := &Summary{Folds: folds}
	var err error
	if summary.Accuracy, err = collect(func(m FoldMetrics) float64 { return m.Accuracy }); err != nil {
		return nil, err
	}
	if summary.CorrectPhase1, err = collect(func(m FoldMetrics) float64 { return m.CorrectPhase1 }); err != nil {
		return nil, err
	}
	if summary.CorrectPhase2, err = collect(func(m FoldMetrics) float64 { return m.CorrectPhase2 }); err != nil {
		return nil, err
	}
	if summary.IncorrectPhase1, err = collect(func(m FoldMetrics) float64 { return m.IncorrectPhase1 }); err != nil {
		return nil, err
	}
	if summary.IncorrectPhase2, err = collect(func(m FoldMetrics) float64 { return m.IncorrectPhase2 }); err != nil {
		return nil, err
	}
	if summary.UnclassifiedPhase1, err = collect(func(m FoldMetrics) float64 { return m.UnclassifiedPhase1 }); err != nil {
		return nil, err
	}
	if summary.UnclassifiedPhase2, err = collect(func(m FoldMetrics) float64 { return m.UnclassifiedPhase2 }); err != nil {
		return nil, err
	}
	return summary, nil
}
