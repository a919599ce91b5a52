package nn

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// DefaultGroupNormEps is the variance epsilon used throughout the VAE.
const DefaultGroupNormEps = 1e-5

// GroupNorm implements group normalization on channel-last tensors.
//
// The channel dimension is split into numGroups groups; each group is
// normalized to zero mean and unit variance over (H, W, channels-in-group)
// per batch element, then scaled and shifted per channel:
//
//	y = weight * (x - mean) / sqrt(var + eps) + bias
//
// Statistics depend only on the input, never on batch-level running
// averages, so inference and training behave identically.
type GroupNorm[B tensor.Backend] struct {
	numGroups   int
	numChannels int
	eps         float32
	weight      *Parameter[B] // [numChannels], initialized to ones
	bias        *Parameter[B] // [numChannels], initialized to zeros
	backend     B
}

// NewGroupNorm creates a GroupNorm layer.
// numChannels must be divisible by numGroups.
func NewGroupNorm[B tensor.Backend](numGroups, numChannels int, backend B) *GroupNorm[B] {
	if numGroups <= 0 || numChannels%numGroups != 0 {
		panic(fmt.Sprintf("NewGroupNorm: channels %d not divisible by groups %d",
			numChannels, numGroups))
	}

	return &GroupNorm[B]{
		numGroups:   numGroups,
		numChannels: numChannels,
		eps:         DefaultGroupNormEps,
		weight:      NewParameter("weight", Ones(tensor.Shape{numChannels}, backend)),
		bias:        NewParameter("bias", Zeros(tensor.Shape{numChannels}, backend)),
		backend:     backend,
	}
}

// Forward normalizes the input per group.
// Input shape [N, H, W, C] with C == numChannels.
func (g *GroupNorm[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("GroupNorm.Forward: expected 4D input [N,H,W,C], got shape %v", inputShape))
	}
	if inputShape[3] != g.numChannels {
		panic(fmt.Sprintf("GroupNorm.Forward: expected %d channels, got %d",
			g.numChannels, inputShape[3]))
	}

	backend := input.Backend()
	resultRaw := backend.GroupNorm(input.Raw(), g.weight.Tensor().Raw(), g.bias.Tensor().Raw(),
		g.numGroups, g.eps)
	return tensor.New[float32, B](resultRaw, backend)
}

// Parameters returns [weight, bias].
func (g *GroupNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{g.weight, g.bias}
}

// StateDict returns the layer's parameters keyed "weight" and "bias".
func (g *GroupNorm[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": g.weight.Tensor().Raw(),
		"bias":   g.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads weight and bias, validating shape and dtype.
func (g *GroupNorm[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	expectedShape := tensor.Shape{g.numChannels}

	for _, name := range []string{"weight", "bias"} {
		raw, ok := stateDict[name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", name)
		}
		if !raw.Shape().Equal(expectedShape) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v",
				name, expectedShape, raw.Shape())
		}
		if raw.DType() != tensor.Float32 {
			return fmt.Errorf("%s dtype mismatch: expected float32, got %v", name, raw.DType())
		}
	}

	copy(g.weight.Tensor().Data(), stateDict["weight"].AsFloat32())
	copy(g.bias.Tensor().Data(), stateDict["bias"].AsFloat32())

	return nil
}
