package cpu

import (
	"testing"

	"github.com/mirage-ml/mirage/internal/tensor"
)

func TestReshape_PreservesData(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	for i, exp := range []float32{1, 2, 3, 4, 5, 6} {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("Reshape[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestReshape_ElementCountMismatchPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for element count mismatch")
		}
	}()
	backend.Reshape(x, tensor.Shape{2, 4})
}

func TestTranspose_2D(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
	})
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	expected := []float32{
		1, 4,
		2, 5,
		3, 6,
	}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("Transpose[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

// TestTranspose_BatchedSwap tests the [B, M, N] -> [B, N, M] permutation
// used to flip attention key/value matrices.
func TestTranspose_BatchedSwap(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 2, 3}, []float32{
		1, 2, 3,
		4, 5, 6,

		7, 8, 9,
		10, 11, 12,
	})
	result := backend.Transpose(x, 0, 2, 1)

	if !result.Shape().Equal(tensor.Shape{2, 3, 2}) {
		t.Fatalf("Expected shape [2 3 2], got %v", result.Shape())
	}
	expected := []float32{
		1, 4,
		2, 5,
		3, 6,

		7, 10,
		8, 11,
		9, 12,
	}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("Transpose[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestTranspose_InvalidAxesPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for repeated axis")
		}
	}()
	backend.Transpose(x, 0, 0)
}

// TestNarrow_ChannelSlice tests slicing the leading channels of a
// channel-last tensor, the moment-head split pattern.
func TestNarrow_ChannelSlice(t *testing.T) {
	backend := New()

	// [1, 1, 2, 4]: two positions, four channels each.
	x := newFloat32(t, tensor.Shape{1, 1, 2, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	result := backend.Narrow(x, 3, 0, 2)

	if !result.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("Expected shape [1 1 2 2], got %v", result.Shape())
	}
	expected := []float32{1, 2, 5, 6}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("Narrow[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestNarrow_NegativeDim(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	result := backend.Narrow(x, -1, 1, 2)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Expected shape [2 2], got %v", result.Shape())
	}
	expected := []float32{2, 3, 6, 7}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("Narrow[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestNarrow_OutOfBoundsPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 4}, make([]float32, 8))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for out-of-bounds narrow")
		}
	}()
	backend.Narrow(x, 1, 3, 2)
}
