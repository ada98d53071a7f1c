package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/pkg/errors"
)

// ScoreFunc scores every feature of X against the labels y, higher
// meaning more informative. y holds one integer class label per row.
type ScoreFunc func(X mat.Matrix, y []int) ([]float64, error)

// SelectKBest keeps the K features with the highest scores and drops the
// rest. The supervised analogue of a Transformer: Fit needs labels.
type SelectKBest struct {
	model.BaseEstimator

	// K is the number of features to keep.
	K int

	// Score is the feature scoring function, FClassif by default.
	Score ScoreFunc

	// Support holds the kept column indices in ascending order.
	Support []int

	// Scores holds the score of every input feature after Fit.
	Scores []float64

	// NFeatures is the input width seen during Fit.
	NFeatures int
}

// NewSelectKBest creates a selector keeping the k best features under the
// ANOVA F score.
func NewSelectKBest(k int) *SelectKBest {
	return &SelectKBest{K: k, Score: FClassif}
}

// Fit scores every feature and records the K highest-scoring columns.
func (s *SelectKBest) Fit(X mat.Matrix, y []int) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "SelectKBest.Fit")
	}
	if len(y) != r {
		return errors.NewDimensionError("SelectKBest.Fit", r, len(y), 0)
	}
	if s.K < 1 || s.K > c {
		return errors.Newf("stylo: SelectKBest.Fit: k must be in [1, %d], got %d", c, s.K)
	}

	scores, err := s.Score(X, y)
	if err != nil {
		return err
	}
	s.Scores = scores
	s.NFeatures = c

	order := make([]int, c)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	s.Support = append([]int(nil), order[:s.K]...)
	sort.Ints(s.Support)

	s.SetFitted()
	return nil
}

// Transform returns X restricted to the columns selected during Fit.
func (s *SelectKBest) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SelectKBest", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("SelectKBest.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, len(s.Support), nil)
	for i := 0; i < r; i++ {
		for jj, j := range s.Support {
			result.Set(i, jj, X.At(i, j))
		}
	}
	return result, nil
}

// FitTransform fits the selector on X, y and returns the reduced X.
func (s *SelectKBest) FitTransform(X mat.Matrix, y []int) (mat.Matrix, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// FClassif computes the one-way ANOVA F-statistic of each feature against
// the class labels: mean square between groups over mean square within.
// Features with no within-class variance score +Inf, matching the limit.
func FClassif(X mat.Matrix, y []int) ([]float64, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "FClassif")
	}
	if len(y) != r {
		return nil, errors.NewDimensionError("FClassif", r, len(y), 0)
	}

	groups := make(map[int][]int)
	for i, label := range y {
		groups[label] = append(groups[label], i)
	}
	k := len(groups)
	if k < 2 {
		return nil, errors.NewValueError("FClassif", "need at least 2 classes")
	}
	if r <= k {
		return nil, errors.NewValueError("FClassif", "need more samples than classes")
	}

	scores := make([]float64, c)
	for j := 0; j < c; j++ {
		grand := 0.0
		for i := 0; i < r; i++ {
			grand += X.At(i, j)
		}
		grand /= float64(r)

		var ssBetween, ssWithin float64
		for _, rows := range groups {
			groupMean := 0.0
			for _, i := range rows {
				groupMean += X.At(i, j)
			}
			groupMean /= float64(len(rows))

			diff := groupMean - grand
			ssBetween += float64(len(rows)) * diff * diff
			for _, i := range rows {
				d := X.At(i, j) - groupMean
				ssWithin += d * d
			}
		}

		msBetween := ssBetween / float64(k-1)
		msWithin := ssWithin / float64(r-k)
		if msWithin == 0 {
			if msBetween == 0 {
				scores[j] = 0
			} else {
				scores[j] = math.Inf(1)
			}
			continue
		}
		scores[j] = msBetween / msWithin
	}

	return scores, nil
}
