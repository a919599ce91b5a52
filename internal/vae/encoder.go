package vae

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Encoder maps RGB images to latents.
//
// Input shape (B, H, W, 3) with H and W divisible by 8; output shape
// (B, H/8, W/8, 4). Three stride-2 convolutions perform the 8x spatial
// reduction while the channel width grows 128 -> 256 -> 512; a
// ResnetBlock / AttentionBlock / ResnetBlock bottleneck sits at 512. The
// head emits 8 moment channels, of which the leading 4 means are kept
// and scaled by LatentScaleFactor.
type Encoder[B tensor.Backend] struct {
	blocks *nn.Sequential[B]
}

// NewEncoder creates an encoder with freshly initialized weights.
func NewEncoder[B tensor.Backend](backend B) *Encoder[B] {
	blocks := nn.NewSequential[B](
		nn.NewConv2D(3, 128, 3, 1, 1, backend),

		// Downsampling stages: two residual blocks, then stride-2 conv.
		NewResnetBlock(128, 128, backend),
		NewResnetBlock(128, 128, backend),
		nn.NewConv2D(128, 128, 3, 2, 1, backend),

		NewResnetBlock(128, 256, backend),
		NewResnetBlock(256, 256, backend),
		nn.NewConv2D(256, 256, 3, 2, 1, backend),

		NewResnetBlock(256, 512, backend),
		NewResnetBlock(512, 512, backend),
		nn.NewConv2D(512, 512, 3, 2, 1, backend),

		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),

		// Bottleneck with spatial attention.
		NewResnetBlock(512, 512, backend),
		NewAttentionBlock(512, backend),
		NewResnetBlock(512, 512, backend),

		nn.NewGroupNorm(normGroups, 512, backend),
		nn.NewSiLU[B](),
		nn.NewConv2D(512, 2*LatentChannels, 3, 1, 1, backend),
		nn.NewConv2D(2*LatentChannels, 2*LatentChannels, 1, 1, 0, backend),

		// Keep the mean channels and scale into latent range.
		newSliceChannels[B](LatentChannels),
		newScaleLatent[B](LatentScaleFactor),
	)

	return &Encoder[B]{blocks: blocks}
}

// Forward encodes a batch of images.
// Input (B, H, W, 3), H and W divisible by 8; output (B, H/8, W/8, 4).
func (e *Encoder[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != 3 {
		panic(fmt.Sprintf("Encoder.Forward: expected [N,H,W,3], got %v", shape))
	}
	if shape[1]%8 != 0 || shape[2]%8 != 0 {
		panic(fmt.Sprintf("Encoder.Forward: spatial dims must be divisible by 8, got %dx%d",
			shape[1], shape[2]))
	}

	return e.blocks.Forward(input)
}

// Parameters returns all encoder parameters in graph order.
func (e *Encoder[B]) Parameters() []*nn.Parameter[B] {
	return e.blocks.Parameters()
}

// StateDict returns all parameters with index-prefixed dotted names
// (e.g. "1.conv1.weight" for the first residual block's conv1).
func (e *Encoder[B]) StateDict() map[string]*tensor.RawTensor {
	return e.blocks.StateDict()
}

// LoadStateDict loads all encoder parameters.
func (e *Encoder[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return e.blocks.LoadStateDict(stateDict)
}
