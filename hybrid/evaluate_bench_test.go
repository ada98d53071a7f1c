package hybrid

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/linear_model"
)

// benchmarkDataset generates separated class clusters with a fixed seed
// so runs are comparable.
func benchmarkDataset(samplesPerClass, classes, features int) (*mat.Dense, []int) {
	rng := rand.New(rand.NewPCG(42, 42))

	n := samplesPerClass * classes
	X := mat.NewDense(n, features, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		class := i / samplesPerClass
		for j := 0; j < features; j++ {
			center := float64(class) * 3.0
			X.Set(i, j, center+rng.Float64()-0.5)
		}
		y[i] = class
	}
	return X, y
}

func BenchmarkEvaluate(b *testing.B) {
	sizes := []struct {
		name            string
		samplesPerClass int
		classes         int
		features        int
	}{
		{"Small_3x20x10", 20, 3, 10},
		{"Medium_5x40x30", 40, 5, 30},
		{"Large_8x60x104", 60, 8, 104},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := benchmarkDataset(size.samplesPerClass, size.classes, size.features)
			factory := func() model.BinaryClassifier {
				return linear_model.NewLinearSVC(
					linear_model.WithSVCMaxIter(100),
					linear_model.WithSVCRandomState(0),
				)
			}
			cfg := Config{Repetitions: 3, Seed: 42}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Evaluate(X, y, factory, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFitOVO(b *testing.B) {
	X, y := benchmarkDataset(40, 6, 20)
	factory := func() model.BinaryClassifier {
		return linear_model.NewLinearSVC(
			linear_model.WithSVCMaxIter(100),
			linear_model.WithSVCRandomState(0),
		)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FitOVO(X, y, factory); err != nil {
			b.Fatal(err)
		}
	}
}
