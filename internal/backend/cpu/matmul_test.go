package cpu

import (
	"testing"

	"github.com/mirage-ml/mirage/internal/tensor"
)

func TestMatMul_Basic(t *testing.T) {
	backend := New()

	// [2, 3] @ [3, 2]
	a := newFloat32(t, tensor.Shape{2, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
	})
	b := newFloat32(t, tensor.Shape{3, 2}, []float32{
		7, 8,
		9, 10,
		11, 12,
	})

	result := backend.MatMul(a, b)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Expected shape [2 2], got %v", result.Shape())
	}

	// [1*7+2*9+3*11, 1*8+2*10+3*12] = [58, 64]
	// [4*7+5*9+6*11, 4*8+5*10+6*12] = [139, 154]
	expected := []float32{58, 64, 139, 154}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("MatMul[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestMatMul_InnerDimMismatchPanics(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
	b := newFloat32(t, tensor.Shape{4, 2}, make([]float32, 8))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}

// TestBatchMatMul_3D tests independent per-batch multiplication.
func TestBatchMatMul_3D(t *testing.T) {
	backend := New()

	// [2, 2, 2] @ [2, 2, 2]
	a := newFloat32(t, tensor.Shape{2, 2, 2}, []float32{
		1, 0,
		0, 1, // batch 0: identity
		1, 2,
		3, 4, // batch 1
	})
	b := newFloat32(t, tensor.Shape{2, 2, 2}, []float32{
		5, 6,
		7, 8,
		1, 0,
		0, 1, // batch 1: identity
	})

	result := backend.BatchMatMul(a, b)

	if !result.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("Expected shape [2 2 2], got %v", result.Shape())
	}

	expected := []float32{
		5, 6, 7, 8, // I @ b0 = b0
		1, 2, 3, 4, // a1 @ I = a1
	}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; got != exp {
			t.Errorf("BatchMatMul[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestBatchMatMul_BatchMismatchPanics(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{2, 2, 2}, make([]float32, 8))
	b := newFloat32(t, tensor.Shape{3, 2, 2}, make([]float32, 12))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for batch size mismatch")
		}
	}()
	backend.BatchMatMul(a, b)
}
