package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// SiLU is the sigmoid linear unit activation module (also called swish):
//
//	f(x) = x * sigmoid(x)
//
// This is the only activation the VAE graph uses between its blocks.
type SiLU[B tensor.Backend] struct{}

// NewSiLU creates a new SiLU activation module.
func NewSiLU[B tensor.Backend]() *SiLU[B] {
	return &SiLU[B]{}
}

// Forward applies the activation element-wise.
func (s *SiLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.SiLU()
}

// Parameters returns nil (SiLU has no parameters).
func (s *SiLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns nil (SiLU has no parameters).
func (s *SiLU[B]) StateDict() map[string]*tensor.RawTensor {
	return nil
}

// LoadStateDict is a no-op for SiLU.
func (s *SiLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
