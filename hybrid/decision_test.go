package hybrid

import (
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/core/model"
	"github.com/stylo-ml/stylo/pkg/errors"
)

// stubBinary is a canned binary classifier for decision-rule tests. It
// records what it was fitted on and answers a fixed prediction column.
type stubBinary struct {
	mu     sync.Mutex
	fitX   *mat.Dense
	fitY   []float64
	fitErr error
	votes  []float64
}

func (s *stubBinary) Fit(X, y mat.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fitErr != nil {
		return s.fitErr
	}
	s.fitX = mat.DenseCopyOf(X)
	rows, _ := y.Dims()
	s.fitY = make([]float64, rows)
	for i := 0; i < rows; i++ {
		s.fitY[i] = y.At(i, 0)
	}
	return nil
}

func (s *stubBinary) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, s.votes[i%len(s.votes)])
	}
	return out, nil
}

// perClassStubs builds one stub per vote column.
func perClassStubs(voteCols ...[]float64) []model.BinaryClassifier {
	out := make([]model.BinaryClassifier, len(voteCols))
	for i, votes := range voteCols {
		out[i] = &stubBinary{votes: votes}
	}
	return out
}

func TestPhase1DecisionRule(t *testing.T) {
	// Four samples, three classes. Vote matrix per sample:
	//   sample 0: [1 0 0] -> class 0
	//   sample 1: [1 1 0] -> deferred (two claims)
	//   sample 2: [0 0 0] -> deferred (no claim)
	//   sample 3: [0 0 1] -> class 2
	ensemble := &OVREnsemble{
		classes: []int{0, 1, 2},
		estimators: perClassStubs(
			[]float64{1, 1, 0, 0},
			[]float64{0, 1, 0, 0},
			[]float64{0, 0, 0, 1},
		),
	}

	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	outcomes, deferred, err := ensemble.Classify(X)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	wantAssigned := map[int]int{0: 0, 3: 2}
	for i, outcome := range outcomes {
		class, ok := outcome.Class()
		want, shouldAssign := wantAssigned[i]
		if ok != shouldAssign {
			t.Errorf("sample %d: assigned = %v, want %v", i, ok, shouldAssign)
			continue
		}
		if ok && class != want {
			t.Errorf("sample %d: class = %d, want %d", i, class, want)
		}
	}

	if len(deferred) != 2 || deferred[0] != 1 || deferred[1] != 2 {
		t.Errorf("deferred = %v, want [1 2]", deferred)
	}
}

func TestPhase1Idempotent(t *testing.T) {
	ensemble := &OVREnsemble{
		classes: []int{0, 1, 2},
		estimators: perClassStubs(
			[]float64{1, 1},
			[]float64{0, 1},
			[]float64{0, 0},
		),
	}

	X := mat.NewDense(2, 1, []float64{0, 1})
	first, firstDeferred, err := ensemble.Classify(X)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	second, secondDeferred, err := ensemble.Classify(X)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sample %d: outcomes differ between runs: %v vs %v", i, first[i], second[i])
		}
	}
	if len(firstDeferred) != len(secondDeferred) {
		t.Errorf("deferred = %v then %v, want identical", firstDeferred, secondDeferred)
	}
}

func TestPhase2DecisionRule(t *testing.T) {
	tests := []struct {
		name      string
		classes   []int
		pairVotes []float64 // one prediction per pair in enumeration order
		wantClass int
		assigned  bool
	}{
		{
			name:    "Unique maximum",
			classes: []int{0, 1, 2},
			// (0,1)->0, (0,2)->0, (1,2)->0: tally [2 1 0]
			pairVotes: []float64{0, 0, 0},
			wantClass: 0,
			assigned:  true,
		},
		{
			name:    "Unique maximum on high class",
			classes: []int{0, 1, 2},
			// (0,1)->0, (0,2)->1, (1,2)->1: tally [1 0 2]
			pairVotes: []float64{0, 1, 1},
			wantClass: 2,
			assigned:  true,
		},
		{
			name:    "Three-way tie",
			classes: []int{0, 1, 2},
			// (0,1)->0, (0,2)->1, (1,2)->0: tally [1 1 1]
			pairVotes: []float64{0, 1, 0},
			assigned:  false,
		},
		{
			name:    "Two-way tie among four classes",
			classes: []int{0, 1, 2, 3},
			// (0,1)->0, (0,2)->0, (0,3)->1, (1,2)->0, (1,3)->0, (2,3)->1:
			// tally [2 2 1 1]
			pairVotes: []float64{0, 0, 1, 0, 0, 1},
			assigned:  false,
		},
		{
			name:    "Non-contiguous class labels",
			classes: []int{3, 7, 9},
			// (3,7)->1, (3,9)->1, (7,9)->0: tally [0 2 1]
			pairVotes: []float64{1, 1, 0},
			wantClass: 7,
			assigned:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := len(tt.classes)
			var pairs []classPair
			var estimators []model.BinaryClassifier
			k := 0
			for i := 0; i < c; i++ {
				for j := i + 1; j < c; j++ {
					pairs = append(pairs, classPair{lo: i, hi: j})
					estimators = append(estimators, &stubBinary{votes: []float64{tt.pairVotes[k]}})
					k++
				}
			}
			ensemble := &OVOEnsemble{classes: tt.classes, pairs: pairs, estimators: estimators}

			outcome, err := ensemble.ClassifyOne(mat.NewVecDense(1, []float64{0}))
			if err != nil {
				t.Fatalf("ClassifyOne() error = %v", err)
			}
			class, ok := outcome.Class()
			if ok != tt.assigned {
				t.Fatalf("assigned = %v, want %v", ok, tt.assigned)
			}
			if ok && class != tt.wantClass {
				t.Errorf("class = %d, want %d", class, tt.wantClass)
			}
		})
	}
}

func TestFitOVRBinarizesPerClass(t *testing.T) {
	// Feature column equals the label, so the recorded training data is
	// traceable back to classes.
	X := mat.NewDense(6, 1, []float64{0, 0, 1, 1, 2, 2})
	y := []int{0, 0, 1, 1, 2, 2}

	var (
		mu      sync.Mutex
		created int
	)
	factory := func() model.BinaryClassifier {
		mu.Lock()
		created++
		mu.Unlock()
		return &stubBinary{votes: []float64{0}}
	}

	ensemble, err := FitOVR(X, y, factory)
	if err != nil {
		t.Fatalf("FitOVR() error = %v", err)
	}
	if got := ensemble.Classes(); len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("Classes() = %v, want [0 1 2]", got)
	}
	if created != 3 {
		t.Fatalf("factory called %d times, want 3", created)
	}

	// Member c must have been fitted against "label == class c".
	for c, estimator := range ensemble.estimators {
		stub := estimator.(*stubBinary)
		for i := 0; i < 6; i++ {
			want := 0.0
			if int(stub.fitX.At(i, 0)) == ensemble.classes[c] {
				want = 1.0
			}
			if stub.fitY[i] != want {
				t.Errorf("class %d estimator: target[%d] = %v, want %v", c, i, stub.fitY[i], want)
			}
		}
	}
}

func TestFitOVOEnumerationAndRelabeling(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 0, 1, 1, 2, 2})
	y := []int{0, 0, 1, 1, 2, 2}

	factory := func() model.BinaryClassifier {
		return &stubBinary{votes: []float64{0}}
	}

	ensemble, err := FitOVO(X, y, factory)
	if err != nil {
		t.Fatalf("FitOVO() error = %v", err)
	}

	wantPairs := []classPair{{lo: 0, hi: 1}, {lo: 0, hi: 2}, {lo: 1, hi: 2}}
	if len(ensemble.pairs) != len(wantPairs) {
		t.Fatalf("got %d pairs, want %d", len(ensemble.pairs), len(wantPairs))
	}

	for k, pair := range ensemble.pairs {
		if pair != wantPairs[k] {
			t.Errorf("pair %d = %+v, want %+v", k, pair, wantPairs[k])
		}

		stub := ensemble.estimators[k].(*stubBinary)
		rows, _ := stub.fitX.Dims()
		if rows != 4 {
			t.Errorf("pair %d trained on %d rows, want 4", k, rows)
			continue
		}
		loClass := float64(ensemble.classes[pair.lo])
		hiClass := float64(ensemble.classes[pair.hi])
		for i := 0; i < rows; i++ {
			feature := stub.fitX.At(i, 0)
			if feature != loClass && feature != hiClass {
				t.Errorf("pair %d saw a row of class %v", k, feature)
			}
			want := 0.0
			if feature == hiClass {
				want = 1.0
			}
			if stub.fitY[i] != want {
				t.Errorf("pair %d: target for class %v = %v, want %v", k, feature, stub.fitY[i], want)
			}
		}
	}
}

func TestFitPropagatesEstimatorFitError(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	y := []int{0, 0, 1, 1}
	cause := errors.New("solver blew up")
	factory := func() model.BinaryClassifier {
		return &stubBinary{fitErr: cause, votes: []float64{0}}
	}

	if _, err := FitOVR(X, y, factory); err == nil {
		t.Fatal("FitOVR() error = nil, want EstimatorFitError")
	} else {
		var fitErr *errors.EstimatorFitError
		if !errors.As(err, &fitErr) {
			t.Fatalf("FitOVR() error = %v, want EstimatorFitError", err)
		}
		if fitErr.Ensemble != "one-vs-rest" {
			t.Errorf("ensemble = %q, want one-vs-rest", fitErr.Ensemble)
		}
		if !errors.Is(err, cause) {
			t.Error("EstimatorFitError should wrap the original cause")
		}
	}

	if _, err := FitOVO(X, y, factory); err == nil {
		t.Fatal("FitOVO() error = nil, want EstimatorFitError")
	} else {
		var fitErr *errors.EstimatorFitError
		if !errors.As(err, &fitErr) {
			t.Fatalf("FitOVO() error = %v, want EstimatorFitError", err)
		}
		if fitErr.Ensemble != "one-vs-one" {
			t.Errorf("ensemble = %q, want one-vs-one", fitErr.Ensemble)
		}
	}
}
