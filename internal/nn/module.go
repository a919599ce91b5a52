// Package nn implements the neural network layers for the VAE graph.
//
// This package provides the building blocks the encoder and decoder are
// assembled from:
//   - Module interface: base interface for all layers
//   - Parameter: named weight tensors
//   - Conv2D: channel-last 2D convolution with zero padding
//   - GroupNorm: group normalization over spatial positions
//   - SiLU: sigmoid linear unit activation
//   - Upsample2D: nearest-neighbor spatial upsampling
//   - Sequential: container for stacking layers
//
// All layers operate on channel-last [N, H, W, C] tensors and are
// inference-only; weights arrive through LoadStateDict.
//
// Type parameter B must satisfy the tensor.Backend interface.
package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	block := nn.NewSequential[Backend](
//	    nn.NewGroupNorm(32, 128, backend),
//	    nn.NewSiLU[Backend](),
//	    nn.NewConv2D(128, 128, 3, 1, 1, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module;
	// convolutional layers expect channel-last [N, H, W, C].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all parameters of this module, including nested
	// module parameters. Returns an empty slice for modules without
	// parameters (e.g. activation functions).
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies parameter data from a state dictionary.
	// Shapes and dtypes must match the module's parameters exactly.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
