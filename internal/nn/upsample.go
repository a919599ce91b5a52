package nn

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Upsample2D performs nearest-neighbor spatial upsampling:
// [N, H, W, C] -> [N, H*scale, W*scale, C]. Each source pixel is
// replicated into a scale x scale block.
type Upsample2D[B tensor.Backend] struct {
	scale int
}

// NewUpsample2D creates an upsampling module with the given integer scale.
func NewUpsample2D[B tensor.Backend](scale int) *Upsample2D[B] {
	if scale <= 0 {
		panic(fmt.Sprintf("NewUpsample2D: invalid scale %d", scale))
	}
	return &Upsample2D[B]{scale: scale}
}

// Forward upsamples the input.
func (u *Upsample2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	resultRaw := backend.Upsample2D(input.Raw(), u.scale)
	return tensor.New[float32, B](resultRaw, backend)
}

// Parameters returns nil (Upsample2D has no parameters).
func (u *Upsample2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns nil (Upsample2D has no parameters).
func (u *Upsample2D[B]) StateDict() map[string]*tensor.RawTensor {
	return nil
}

// LoadStateDict is a no-op for Upsample2D.
func (u *Upsample2D[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
