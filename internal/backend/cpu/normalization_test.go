package cpu

import (
	"math"
	"testing"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// TestGroupNorm_Statistics tests per-group mean/variance normalization on
// a channel-last tensor with two groups.
func TestGroupNorm_Statistics(t *testing.T) {
	backend := New()

	// [1, 1, 2, 4], groups=2. Group 0 covers channels {0,1}, group 1 {2,3}.
	// Group 0 values: 1, 2, 3, 4 -> mean 2.5, var 1.25
	// Group 1 values: 3, 4, 5, 6 -> mean 4.5, var 1.25
	x := newFloat32(t, tensor.Shape{1, 1, 2, 4}, []float32{
		1, 2, 3, 4, // position 0: channels 0..3
		3, 4, 5, 6, // position 1
	})

	result := backend.GroupNorm(x, nil, nil, 2, 1e-5)

	invStd := float32(1.0 / math.Sqrt(1.25+1e-5))
	expected := []float32{
		(1 - 2.5) * invStd, (2 - 2.5) * invStd, (3 - 4.5) * invStd, (4 - 4.5) * invStd,
		(3 - 2.5) * invStd, (4 - 2.5) * invStd, (5 - 4.5) * invStd, (6 - 4.5) * invStd,
	}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; !closeEnough(got, exp) {
			t.Errorf("GroupNorm[%d]: expected %.6f, got %.6f", i, exp, got)
		}
	}
}

// TestGroupNorm_ScaleShift tests the affine gamma/beta application.
func TestGroupNorm_ScaleShift(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{
		1, 3,
		3, 5,
	})
	gamma := newFloat32(t, tensor.Shape{2}, []float32{2, 2})
	beta := newFloat32(t, tensor.Shape{2}, []float32{1, -1})

	// groups=1: all four values in one group. mean=3, var=2.
	result := backend.GroupNorm(x, gamma, beta, 1, 1e-5)

	invStd := float32(1.0 / math.Sqrt(2+1e-5))
	expected := []float32{
		2*(1-3)*invStd + 1, 2*(3-3)*invStd - 1,
		2*(3-3)*invStd + 1, 2*(5-3)*invStd - 1,
	}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; !closeEnough(got, exp) {
			t.Errorf("GroupNorm[%d]: expected %.6f, got %.6f", i, exp, got)
		}
	}
}

func TestGroupNorm_IndivisibleChannelsPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{1, 1, 1, 6}, make([]float32, 6))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for channels not divisible by groups")
		}
	}()
	backend.GroupNorm(x, nil, nil, 4, 1e-5)
}

// TestSoftmax_KnownValues tests softmax([0, ln 2]) = [1/3, 2/3].
func TestSoftmax_KnownValues(t *testing.T) {
	backend := New()

	ln2 := float32(math.Log(2))
	x := newFloat32(t, tensor.Shape{1, 2}, []float32{0, ln2})

	result := backend.Softmax(x, -1)

	expected := []float32{1.0 / 3.0, 2.0 / 3.0}
	for i, exp := range expected {
		if got := result.AsFloat32()[i]; !closeEnough(got, exp) {
			t.Errorf("Softmax[%d]: expected %.6f, got %.6f", i, exp, got)
		}
	}
}

// TestSoftmax_RowsSumToOne tests normalization over the last axis of a
// batched attention-style weight tensor.
func TestSoftmax_RowsSumToOne(t *testing.T) {
	backend := New()

	data := make([]float32, 2*3*4)
	for i := range data {
		data[i] = float32(i%7) - 3
	}
	x := newFloat32(t, tensor.Shape{2, 3, 4}, data)

	result := backend.Softmax(x, -1)
	out := result.AsFloat32()

	for row := 0; row < 6; row++ {
		sum := float32(0)
		for j := 0; j < 4; j++ {
			v := out[row*4+j]
			if v < 0 || v > 1 {
				t.Errorf("Softmax row %d element %d out of [0,1]: %v", row, j, v)
			}
			sum += v
		}
		if !closeEnough(sum, 1.0) {
			t.Errorf("Softmax row %d: sum %.6f, want 1", row, sum)
		}
	}
}

// TestSoftmax_LargeValuesStable tests that large logits do not overflow.
func TestSoftmax_LargeValuesStable(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{1, 3}, []float32{1000, 1000, 1000})
	result := backend.Softmax(x, 1)

	for i := 0; i < 3; i++ {
		got := result.AsFloat32()[i]
		if !closeEnough(got, 1.0/3.0) {
			t.Errorf("Softmax[%d]: expected 1/3, got %v", i, got)
		}
	}
}
