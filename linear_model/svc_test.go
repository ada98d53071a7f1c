package linear_model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/pkg/errors"
)

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0.0, 0.1,
		0.1, 0.0,
		0.2, 0.1,
		0.1, 0.2,
		2.0, 2.1,
		2.1, 2.0,
		2.2, 2.1,
		2.1, 2.2,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLinearSVCSeparableFit(t *testing.T) {
	X, y := separableData()

	svc := NewLinearSVC(WithSVCRandomState(42))
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !svc.IsFitted() {
		t.Fatal("IsFitted() = false after successful Fit")
	}

	predictions, err := svc.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 8; i++ {
		if got, want := predictions.At(i, 0), y.At(i, 0); got != want {
			t.Errorf("sample %d: predicted %v, want %v", i, got, want)
		}
	}
}

func TestLinearSVCClassOrder(t *testing.T) {
	// Labels arrive in descending order; the fitted classes must still be
	// ascending with the higher class on the positive margin side.
	X := mat.NewDense(4, 1, []float64{5, 5.1, 0, 0.1})
	y := mat.NewDense(4, 1, []float64{7, 7, 3, 3})

	svc := NewLinearSVC(WithSVCRandomState(1))
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if got := svc.Classes(); got != [2]int{3, 7} {
		t.Fatalf("Classes() = %v, want [3 7]", got)
	}

	scores, err := svc.DecisionFunction(X)
	if err != nil {
		t.Fatalf("DecisionFunction() error = %v", err)
	}
	if scores.AtVec(0) <= 0 {
		t.Errorf("high-class sample scored %v, want positive", scores.AtVec(0))
	}
	if scores.AtVec(2) >= 0 {
		t.Errorf("low-class sample scored %v, want negative", scores.AtVec(2))
	}
}

func TestLinearSVCReproducible(t *testing.T) {
	X, y := separableData()

	first := NewLinearSVC(WithSVCRandomState(7))
	second := NewLinearSVC(WithSVCRandomState(7))
	if err := first.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := second.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	a, b := first.Coef(), second.Coef()
	for j := range a {
		if a[j] != b[j] {
			t.Errorf("coef[%d] differs between identical seeds: %v vs %v", j, a[j], b[j])
		}
	}
	if first.Intercept() != second.Intercept() {
		t.Errorf("intercepts differ: %v vs %v", first.Intercept(), second.Intercept())
	}
}

func TestLinearSVCFitErrors(t *testing.T) {
	svc := NewLinearSVC(WithSVCRandomState(0))

	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "Single class",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(3, 1, []float64{1, 1, 1}),
		},
		{
			name: "Three classes",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(3, 1, []float64{0, 1, 2}),
		},
		{
			name: "Row mismatch",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(2, 1, []float64{0, 1}),
		},
		{
			name: "Wide target",
			X:    mat.NewDense(2, 1, []float64{1, 2}),
			y:    mat.NewDense(2, 2, []float64{0, 0, 1, 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Fit(tt.X, tt.y); err == nil {
				t.Error("Fit() error = nil, want error")
			}
		})
	}
}

func TestLinearSVCNotFitted(t *testing.T) {
	svc := NewLinearSVC()
	_, err := svc.Predict(mat.NewDense(1, 1, []float64{0}))
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("Predict() error = %v, want NotFittedError", err)
	}
}

func TestLinearSVCDimensionMismatch(t *testing.T) {
	X, y := separableData()
	svc := NewLinearSVC(WithSVCRandomState(9))
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := svc.Predict(mat.NewDense(1, 3, []float64{0, 0, 0}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Predict() error = %v, want DimensionError", err)
	}
}
