package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "gomachine: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "gomachine: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Node.DistanceTo", 3, 2, 1)

	want := "gomachine: Node.DistanceTo: dimension mismatch on axis 1 (features). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewInputMismatchError(t *testing.T) {
	err := NewInputMismatchError("BuildKDTree", 4, 3)

	want := "gomachine: BuildKDTree: got 4 points but 3 targets"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var mismatch *InputMismatchError
	if !As(err, &mismatch) {
		t.Fatal("Error should be castable to *InputMismatchError")
	}
	if mismatch.Points != 4 || mismatch.Targets != 3 {
		t.Errorf("unexpected fields: %+v", mismatch)
	}

	// DimensionErrorとは区別される
	var dimErr *DimensionError
	if As(err, &dimErr) {
		t.Error("InputMismatchError must not match *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("KNeighborsRegressor", "Predict")

	want := "gomachine: KNeighborsRegressor: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValueError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		param   string
		value   interface{}
		message string
		wantMsg string
	}{
		{
			name:    "with message",
			op:      "SetParam",
			param:   "learning_rate",
			value:   -0.5,
			message: "must be positive",
			wantMsg: "gomachine: SetParam: learning_rate: -0.5 (must be positive)",
		},
		{
			name:    "without message",
			op:      "SetParam",
			param:   "k",
			value:   0,
			message: "",
			wantMsg: "gomachine: SetParam: k: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.message != "" {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v (%s)", tt.param, tt.value, tt.message))
			} else {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v", tt.param, tt.value))
			}

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var valErr *ValueError
			if !As(err, &valErr) {
				t.Error("Error should be castable to *ValueError")
			}
		})
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("GradientRegression", 10, "loss increased in the final epoch")

	want := "GradientRegression failed to converge after 10 iterations: loss increased in the final epoch"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestEmptyResultWarning(t *testing.T) {
	tests := []struct {
		name  string
		found int
		want  string
	}{
		{"empty tree", 0, "KNeighborsRegressor.Predict: requested 5 neighbors but the tree is empty; predictions are NaN"},
		{"fewer than k", 2, "KNeighborsRegressor.Predict: requested 5 neighbors but only 2 training points are available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewEmptyResultWarning("KNeighborsRegressor.Predict", 5, tt.found)
			if w.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", w.Error(), tt.want)
			}
		})
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewEmptyResultWarning("op", 3, 1))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}

	// zerolog関数が設定されている場合はそちらが優先される
	var viaZerolog int
	SetZerologWarnFunc(func(w error) { viaZerolog++ })
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("x", 1, ""))
	if viaZerolog != 1 || len(got) != 1 {
		t.Errorf("expected zerolog sink to take precedence (zerolog=%d, handler=%d)", viaZerolog, len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in KNeighborsRegressor.Fit")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in KNeighborsRegressor.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}

	formatted := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)
	if !strings.Contains(formatted.Error(), "in Predict: expected 10, got 5") {
		t.Errorf("unexpected message %q", formatted.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("theta", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("theta", []float64{1, nanValue(), 3}, 7)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 7 || numErr.Operation != "theta" {
		t.Errorf("unexpected fields: %+v", numErr)
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
