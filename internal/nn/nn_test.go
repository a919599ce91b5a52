package nn

import (
	"math"
	"testing"

	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/internal/tensor"
)

func rawFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

// TestConv2D_PaddingPreservesDims tests that kernel 3, stride 1, padding 1
// keeps the spatial dimensions.
func TestConv2D_PaddingPreservesDims(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(3, 8, 3, 1, 1, backend)

	input := Randn(tensor.Shape{1, 16, 16, 3}, backend)
	output := conv.Forward(input)

	expectedShape := tensor.Shape{1, 16, 16, 8}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}
}

// TestConv2D_StridedDownsample tests that stride 2 halves the spatial dims.
func TestConv2D_StridedDownsample(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(4, 4, 3, 2, 1, backend)

	input := Randn(tensor.Shape{1, 8, 8, 4}, backend)
	output := conv.Forward(input)

	expectedShape := tensor.Shape{1, 4, 4, 4}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}
}

// TestConv2D_BiasApplied tests the bias broadcast with a zeroed weight.
func TestConv2D_BiasApplied(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(1, 2, 1, 1, 0, backend)

	err := conv.LoadStateDict(map[string]*tensor.RawTensor{
		"weight": rawFloat32(t, tensor.Shape{1, 1, 1, 2}, []float32{0, 0}),
		"bias":   rawFloat32(t, tensor.Shape{2}, []float32{3, -4}),
	})
	if err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	input := Ones(tensor.Shape{1, 2, 2, 1}, backend)
	output := conv.Forward(input)

	// Zero weights: every output position is exactly the bias.
	out := output.Raw().AsFloat32()
	for i := 0; i < 4; i++ {
		if out[i*2] != 3 || out[i*2+1] != -4 {
			t.Errorf("Position %d: expected (3, -4), got (%v, %v)", i, out[i*2], out[i*2+1])
		}
	}
}

func TestConv2D_LoadStateDictShapeMismatch(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(3, 8, 3, 1, 1, backend)

	err := conv.LoadStateDict(map[string]*tensor.RawTensor{
		"weight": rawFloat32(t, tensor.Shape{3, 3, 3, 4}, make([]float32, 108)),
		"bias":   rawFloat32(t, tensor.Shape{8}, make([]float32, 8)),
	})
	if err == nil {
		t.Error("Expected error for weight shape mismatch")
	}
}

// TestGroupNorm_ZeroMeanUnitVar tests normalization with identity affine.
func TestGroupNorm_ZeroMeanUnitVar(t *testing.T) {
	backend := cpu.New()
	norm := NewGroupNorm(2, 4, backend)

	input := Randn(tensor.Shape{1, 4, 4, 4}, backend)
	output := norm.Forward(input)

	if !output.Shape().Equal(input.Shape()) {
		t.Fatalf("Expected shape %v, got %v", input.Shape(), output.Shape())
	}

	// With weight=1, bias=0 each group has ~zero mean and unit variance.
	out := output.Raw().AsFloat32()
	for g := 0; g < 2; g++ {
		sum, sumSq := 0.0, 0.0
		count := 0
		for p := 0; p < 16; p++ {
			for c := g * 2; c < g*2+2; c++ {
				v := float64(out[p*4+c])
				sum += v
				sumSq += v * v
				count++
			}
		}
		mean := sum / float64(count)
		variance := sumSq/float64(count) - mean*mean
		if math.Abs(mean) > 1e-4 {
			t.Errorf("Group %d: mean %v, want ~0", g, mean)
		}
		if math.Abs(variance-1) > 1e-3 {
			t.Errorf("Group %d: variance %v, want ~1", g, variance)
		}
	}
}

func TestSiLU_Module(t *testing.T) {
	backend := cpu.New()
	silu := NewSiLU[*cpu.CPUBackend]()

	input, err := tensor.FromSlice([]float32{0, 1, -1}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	output := silu.Forward(input)

	expected := []float32{0, 0.7310586, -0.2689414}
	for i, exp := range expected {
		got := output.Raw().AsFloat32()[i]
		if math.Abs(float64(got-exp)) > 1e-5 {
			t.Errorf("SiLU[%d]: expected %.6f, got %.6f", i, exp, got)
		}
	}

	if silu.Parameters() != nil {
		t.Error("SiLU should have no parameters")
	}
}

func TestUpsample2D_Module(t *testing.T) {
	backend := cpu.New()
	up := NewUpsample2D[*cpu.CPUBackend](2)

	input := Ones(tensor.Shape{1, 4, 4, 8}, backend)
	output := up.Forward(input)

	expectedShape := tensor.Shape{1, 8, 8, 8}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}
}

// TestSequential_StateDictRoundTrip tests index-prefixed keys and loading.
func TestSequential_StateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	model := NewSequential[*cpu.CPUBackend](
		NewConv2D(1, 2, 1, 1, 0, backend),
		NewSiLU[*cpu.CPUBackend](),
		NewGroupNorm(1, 2, backend),
	)

	stateDict := model.StateDict()

	expectedKeys := []string{"0.weight", "0.bias", "2.weight", "2.bias"}
	if len(stateDict) != len(expectedKeys) {
		t.Fatalf("Expected %d keys, got %d: %v", len(expectedKeys), len(stateDict), stateDict)
	}
	for _, key := range expectedKeys {
		if _, ok := stateDict[key]; !ok {
			t.Errorf("Missing key %q in state dict", key)
		}
	}

	// Loading the model's own state dict back must succeed.
	if err := model.LoadStateDict(stateDict); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}
}

func TestSequential_ForwardChains(t *testing.T) {
	backend := cpu.New()
	model := NewSequential[*cpu.CPUBackend](
		NewConv2D(3, 8, 3, 1, 1, backend),
		NewSiLU[*cpu.CPUBackend](),
		NewConv2D(8, 4, 3, 2, 1, backend),
	)

	input := Randn(tensor.Shape{1, 8, 8, 3}, backend)
	output := model.Forward(input)

	expectedShape := tensor.Shape{1, 4, 4, 4}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}

	// Conv2D has weight+bias, SiLU none.
	if got := len(model.Parameters()); got != 4 {
		t.Errorf("Expected 4 parameters, got %d", got)
	}
}
