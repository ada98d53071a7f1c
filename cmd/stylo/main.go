// Command stylo runs hybrid authorship attribution over a document
// corpus. Features are extracted once and cached in a features file;
// subsequent runs start from the cache.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/hybrid"
	"github.com/stylo-ml/stylo/linear_model"
	"github.com/stylo-ml/stylo/pkg/log"
	"github.com/stylo-ml/stylo/plot"
	"github.com/stylo-ml/stylo/stylometry"
)

func main() {
	var (
		corpusDir       = flag.String("corpus", "corpus", "corpus directory; one subdirectory per author")
		featuresFile    = flag.String("features", "bookfeatures.txt", "features cache file")
		repetitions     = flag.Int("repetitions", hybrid.DefaultRepetitions, "number of evaluation folds")
		testFraction    = flag.Float64("test-fraction", hybrid.DefaultTestFraction, "held-out fraction per fold")
		featureFraction = flag.Float64("feature-fraction", hybrid.DefaultFeatureFraction, "fraction of features kept per fold")
		seed            = flag.Uint64("seed", 0, "random seed; 0 for nondeterministic splits")
		estimator       = flag.String("estimator", "svc", "binary sub-estimator: svc or logistic")
		improvementPlot = flag.String("improvement-plot", "", "write the phase-improvement chart to this file")
		legomenaPlot    = flag.String("legomena-plot", "", "write the legomena scatter to this file")
		logLevel        = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	log.SetupLogger(*logLevel)

	if err := run(*corpusDir, *featuresFile, *estimator, *improvementPlot, *legomenaPlot, hybrid.Config{
		Repetitions:     *repetitions,
		TestFraction:    *testFraction,
		FeatureFraction: *featureFraction,
		Seed:            *seed,
	}); err != nil {
		slog.Error("run failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func run(corpusDir, featuresFile, estimator, improvementPlot, legomenaPlot string, cfg hybrid.Config) error {
	factory, err := estimatorFactory(estimator)
	if err != nil {
		return err
	}

	X, y, classNames, err := loadFeatures(corpusDir, featuresFile)
	if err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	nClasses := len(distinct(y))
	slog.Info("loaded features",
		slog.Int("samples", nSamples),
		slog.Int("features", nFeatures),
		slog.Int("classes", nClasses))

	summary, err := hybrid.Evaluate(X, y, factory, cfg)
	if err != nil {
		return err
	}

	report := func(name string, s hybrid.Stat) {
		fmt.Printf("%-36s %2.3f (+/- %2.3f)\n", name, s.Mean, s.StdErr)
	}
	fmt.Printf("%d samples in %d classes, %d folds\n\n", nSamples, nClasses, cfg.Repetitions)
	report("correct after phase 1:", summary.CorrectPhase1)
	report("correct after phase 2:", summary.CorrectPhase2)
	report("incorrect after phase 1:", summary.IncorrectPhase1)
	report("incorrect after phase 2:", summary.IncorrectPhase2)
	report("unclassified after phase 1:", summary.UnclassifiedPhase1)
	report("unclassified after phase 2:", summary.UnclassifiedPhase2)
	report("accuracy:", summary.Accuracy)

	if improvementPlot != "" {
		if err := plot.SaveImprovementChart(summary, improvementPlot); err != nil {
			return err
		}
		slog.Info("wrote improvement chart", slog.String("path", improvementPlot))
	}
	if legomenaPlot != "" {
		if err := plot.SaveLegomenaScatter(X, y, classNames, legomenaPlot); err != nil {
			return err
		}
		slog.Info("wrote legomena scatter", slog.String("path", legomenaPlot))
	}

	return nil
}

// estimatorFactory maps the -estimator flag to a sub-estimator factory.
func estimatorFactory(name string) (hybrid.Factory, error) {
	switch name {
	case "svc":
		return func() model.BinaryClassifier {
			return linear_model.NewLinearSVC(
				linear_model.WithSVCC(1.0),
				linear_model.WithSVCTol(1e-8),
				linear_model.WithSVCRandomState(0),
			)
		}, nil
	case "logistic":
		return func() model.BinaryClassifier {
			return linear_model.NewLogisticRegression(
				linear_model.WithLRC(1.0),
				linear_model.WithLRMaxIter(1000),
				linear_model.WithLRRandomState(0),
			)
		}, nil
	default:
		return nil, fmt.Errorf("unknown estimator %q: want svc or logistic", name)
	}
}

// loadFeatures reads the features cache when present, otherwise extracts
// features from the corpus and writes the cache.
func loadFeatures(corpusDir, featuresFile string) (*mat.Dense, []int, []string, error) {
	if _, err := os.Stat(featuresFile); err == nil {
		slog.Info("features file found", slog.String("path", featuresFile))
		X, y, names, err := stylometry.LoadFeatures(featuresFile)
		if err != nil {
			return nil, nil, nil, err
		}
		return X, y, names, nil
	}

	slog.Info("features file not found, extracting from corpus",
		slog.String("corpus", corpusDir))
	X, y, encoder, err := stylometry.LoadCorpus(corpusDir, stylometry.Options{})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := stylometry.SaveFeatures(featuresFile, X, y, encoder); err != nil {
		return nil, nil, nil, err
	}
	slog.Info("features saved", slog.String("path", featuresFile))
	return X, y, encoder.Classes(), nil
}

func distinct(y []int) map[int]bool {
	set := make(map[int]bool)
	for _, label := range y {
		set[label] = true
	}
	return set
}
