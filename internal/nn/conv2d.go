package nn

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Conv2D implements a 2D convolution layer on channel-last tensors.
//
// Input shape:  [N, H, W, C_in]
// Weight shape: [K_h, K_w, C_in, C_out]
// Bias shape:   [C_out]
// Output shape: [N, H_out, W_out, C_out]
//
// The input is zero-padded `padding` pixels on every spatial edge before
// a valid convolution, so kernel size 3 with padding 1 and stride 1
// preserves the spatial dimensions.
//
// Weights are initialized with Xavier/Glorot, biases with zeros; in
// practice both are overwritten by LoadStateDict with pretrained values.
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	weight      *Parameter[B] // [kernelSize, kernelSize, inChannels, outChannels]
	bias        *Parameter[B] // [outChannels]
	backend     B
}

// NewConv2D creates a new Conv2D layer with square kernels.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, backend B) *Conv2D[B] {
	if kernelSize <= 0 || stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("NewConv2D: invalid geometry kernel=%d stride=%d padding=%d",
			kernelSize, stride, padding))
	}

	weightShape := tensor.Shape{kernelSize, kernelSize, inChannels, outChannels}
	fanIn := kernelSize * kernelSize * inChannels
	fanOut := kernelSize * kernelSize * outChannels
	weight := NewParameter("weight", Xavier(fanIn, fanOut, weightShape, backend))

	bias := NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes the convolution plus bias.
//
// Input shape [N, H, W, C_in]; output [N, H_out, W_out, C_out] where
// out = (in + 2*padding - kernel) / stride + 1 per spatial dimension.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("Conv2D.Forward: expected 4D input [N,H,W,C], got shape %v", inputShape))
	}
	if inputShape[3] != c.inChannels {
		panic(fmt.Sprintf("Conv2D.Forward: expected input with %d channels, got %d",
			c.inChannels, inputShape[3]))
	}

	backend := input.Backend()
	outputRaw := backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding)
	output := tensor.New[float32, B](outputRaw, backend)

	// Broadcast bias over batch and spatial dimensions.
	biasReshaped := c.bias.Tensor().Reshape(1, 1, 1, c.outChannels)
	return output.Add(biasReshaped)
}

// Parameters returns [weight, bias].
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// StateDict returns the layer's parameters keyed "weight" and "bias".
func (c *Conv2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
		"bias":   c.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads weight and bias, validating shape and dtype.
func (c *Conv2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	weightRaw, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}

	expectedWeightShape := tensor.Shape{c.kernelSize, c.kernelSize, c.inChannels, c.outChannels}
	if !weightRaw.Shape().Equal(expectedWeightShape) {
		return fmt.Errorf("weight shape mismatch: expected %v, got %v",
			expectedWeightShape, weightRaw.Shape())
	}
	if weightRaw.DType() != tensor.Float32 {
		return fmt.Errorf("weight dtype mismatch: expected float32, got %v", weightRaw.DType())
	}
	copy(c.weight.Tensor().Data(), weightRaw.AsFloat32())

	biasRaw, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}

	expectedBiasShape := tensor.Shape{c.outChannels}
	if !biasRaw.Shape().Equal(expectedBiasShape) {
		return fmt.Errorf("bias shape mismatch: expected %v, got %v",
			expectedBiasShape, biasRaw.Shape())
	}
	if biasRaw.DType() != tensor.Float32 {
		return fmt.Errorf("bias dtype mismatch: expected float32, got %v", biasRaw.DType())
	}
	copy(c.bias.Tensor().Data(), biasRaw.AsFloat32())

	return nil
}
