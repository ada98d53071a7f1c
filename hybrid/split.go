package hybrid

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/stylo-ml/stylo/pkg/errors"
)

// Fold is one train/test index partition over the full sample population.
// The two sets are disjoint and together cover every sample.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedShuffleSplit produces repeated randomized train/test
// partitions in which both sides preserve each class's share of the full
// population, within rounding. Every repetition is an independent shuffle.
type StratifiedShuffleSplit struct {
	// NSplits is the number of repetitions.
	NSplits int

	// TestFraction is the held-out share of each class, in (0, 1).
	TestFraction float64

	// Seed makes the splits reproducible when nonzero.
	Seed uint64
}

// NewStratifiedShuffleSplit creates a splitter with the given repetition
// count and held-out fraction.
func NewStratifiedShuffleSplit(nSplits int, testFraction float64, seed uint64) *StratifiedShuffleSplit {
	return &StratifiedShuffleSplit{
		NSplits:      nSplits,
		TestFraction: testFraction,
		Seed:         seed,
	}
}

// Split partitions the sample indices of y into NSplits independent folds.
// It fails with an InsufficientSamplesError if any class has fewer than
// two members, since such a class cannot appear on both sides of a split.
func (s *StratifiedShuffleSplit) Split(y []int) ([]Fold, error) {
	if len(y) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "StratifiedShuffleSplit.Split")
	}
	if s.NSplits < 1 {
		return nil, errors.NewValueError("StratifiedShuffleSplit.Split", "number of splits must be at least 1")
	}
	if s.TestFraction <= 0 || s.TestFraction >= 1 {
		return nil, errors.NewValueError("StratifiedShuffleSplit.Split", "test fraction must be in (0, 1)")
	}

	classIndices := make(map[int][]int)
	for i, label := range y {
		classIndices[label] = append(classIndices[label], i)
	}
	for class, indices := range classIndices {
		if len(indices) < 2 {
			return nil, errors.NewInsufficientSamplesError(class, len(indices), 2)
		}
	}

	// Iterate classes in a fixed order so a fixed seed reproduces the
	// exact same folds.
	classes := make([]int, 0, len(classIndices))
	for class := range classIndices {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	folds := make([]Fold, s.NSplits)
	for f := range folds {
		train := make([]int, 0, len(y))
		test := make([]int, 0, int(float64(len(y))*s.TestFraction)+len(classes))

		for _, class := range classes {
			indices := classIndices[class]
			shuffled := make([]int, len(indices))
			copy(shuffled, indices)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			nTest := int(math.Round(float64(len(shuffled)) * s.TestFraction))
			// Both sides must see every class.
			if nTest < 1 {
				nTest = 1
			}
			if nTest > len(shuffled)-1 {
				nTest = len(shuffled) - 1
			}

			test = append(test, shuffled[:nTest]...)
			train = append(train, shuffled[nTest:]...)
		}

		sort.Ints(train)
		sort.Ints(test)
		folds[f] = Fold{Train: train, Test: test}
	}

	return folds, nil
}
