package vae

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Decoder maps latents back to RGB images.
//
// Input shape (B, H, W, 4); output shape (B, 8H, 8W, 3). The inverse
// latent scale is divided out first, then a 1x1 post-quant convolution
// feeds the 512-wide bottleneck; three nearest-neighbor upsample stages
// perform the 8x spatial growth while the channel width shrinks
// 512 -> 256 -> 128.
type Decoder[B tensor.Backend] struct {
	blocks *nn.Sequential[B]
}

// NewDecoder creates a decoder with freshly initialized weights.
func NewDecoder[B tensor.Backend](backend B) *Decoder[B] {
	blocks := nn.NewSequential[B](
		newScaleLatent[B](1.0/LatentScaleFactor),

		nn.NewConv2D(LatentChannels, LatentChannels, 1, 1, 0, backend),
		nn.NewConv2D(LatentChannels, 512, 3, 1, 1, backend),

		// Bottleneck with spatial attention.
		NewResnetBlock(512, 512, backend),
		NewAttentionBlock(512, backend),
		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),

		// Upsampling stages: 2x nearest, 3x3 conv, three residual blocks.
		nn.NewUpsample2D[B](2),
		nn.NewConv2D(512, 512, 3, 1, 1, backend),
		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),
		NewResnetBlock(512, 512, backend),

		nn.NewUpsample2D[B](2),
		nn.NewConv2D(512, 512, 3, 1, 1, backend),
		NewResnetBlock(512, 256, backend),
		NewResnetBlock(256, 256, backend),
		NewResnetBlock(256, 256, backend),

		nn.NewUpsample2D[B](2),
		nn.NewConv2D(256, 256, 3, 1, 1, backend),
		NewResnetBlock(256, 128, backend),
		NewResnetBlock(128, 128, backend),
		NewResnetBlock(128, 128, backend),

		nn.NewGroupNorm(normGroups, 128, backend),
		nn.NewSiLU[B](),
		nn.NewConv2D(128, 3, 3, 1, 1, backend),
	)

	return &Decoder[B]{blocks: blocks}
}

// Forward decodes a batch of latents.
// Input (B, H, W, 4); output (B, 8H, 8W, 3).
func (d *Decoder[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != LatentChannels {
		panic(fmt.Sprintf("Decoder.Forward: expected [N,H,W,%d], got %v", LatentChannels, shape))
	}

	return d.blocks.Forward(input)
}

// Parameters returns all decoder parameters in graph order.
func (d *Decoder[B]) Parameters() []*nn.Parameter[B] {
	return d.blocks.Parameters()
}

// StateDict returns all parameters with index-prefixed dotted names.
func (d *Decoder[B]) StateDict() map[string]*tensor.RawTensor {
	return d.blocks.StateDict()
}

// LoadStateDict loads all decoder parameters.
func (d *Decoder[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return d.blocks.LoadStateDict(stateDict)
}
