package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/pkg/errors"
)

func TestMinMaxScalerFitTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 10,
		5, 20,
		10, 30,
	})

	scaler := NewMinMaxScalerDefault()
	got, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	want := mat.NewDense(3, 2, []float64{
		0, 0,
		0.5, 0.5,
		1, 1,
	})
	if !mat.EqualApprox(got, want, 1e-12) {
		t.Errorf("FitTransform() =\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}

	if scaler.DataMin[0] != 0 || scaler.DataMax[0] != 10 {
		t.Errorf("feature 0 extrema = [%v, %v], want [0, 10]", scaler.DataMin[0], scaler.DataMax[0])
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 4})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	got, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	want := mat.NewDense(2, 1, []float64{-1, 1})
	if !mat.EqualApprox(got, want, 1e-12) {
		t.Errorf("FitTransform() =\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestMinMaxScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		7, 0,
		7, 5,
		7, 10,
	})

	scaler := NewMinMaxScalerDefault()
	got, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// A constant feature maps to the range minimum for every row.
	for i := 0; i < 3; i++ {
		if v := got.At(i, 0); v != 0 {
			t.Errorf("row %d constant feature = %v, want 0", i, v)
		}
	}
}

func TestMinMaxScalerTestPartition(t *testing.T) {
	train := mat.NewDense(2, 1, []float64{0, 10})
	test := mat.NewDense(3, 1, []float64{5, -5, 15})

	scaler := NewMinMaxScalerDefault()
	if _, err := scaler.FitTransform(train); err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	got, err := scaler.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	// Unseen values use the training extrema and may land outside [0, 1].
	want := []float64{0.5, -0.5, 1.5}
	for i, w := range want {
		if v := got.At(i, 0); math.Abs(v-w) > 1e-12 {
			t.Errorf("row %d = %v, want %v", i, v, w)
		}
	}
}

func TestMinMaxScalerErrors(t *testing.T) {
	scaler := NewMinMaxScalerDefault()

	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("expected not-fitted error")
	} else {
		var notFitted *errors.NotFittedError
		if !errors.As(err, &notFitted) {
			t.Errorf("error = %v, want NotFittedError", err)
		}
	}

	if err := scaler.Fit(mat.NewDense(2, 1, []float64{0, 1})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(1, 2, []float64{1, 2})); err == nil {
		t.Error("expected dimension error for width mismatch")
	}
}
