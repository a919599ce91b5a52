package vae

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// scaleLatent multiplies every element by a fixed factor. The encoder
// ends with factor LatentScaleFactor; the decoder starts with its inverse.
type scaleLatent[B tensor.Backend] struct {
	factor float32
}

func newScaleLatent[B tensor.Backend](factor float32) *scaleLatent[B] {
	return &scaleLatent[B]{factor: factor}
}

func (s *scaleLatent[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.MulScalar(s.factor)
}

func (s *scaleLatent[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

func (s *scaleLatent[B]) StateDict() map[string]*tensor.RawTensor {
	return nil
}

func (s *scaleLatent[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// sliceChannels keeps the first n channels of a channel-last tensor.
// The encoder's final convolution emits 2*LatentChannels moment channels;
// only the leading means are kept.
type sliceChannels[B tensor.Backend] struct {
	channels int
}

func newSliceChannels[B tensor.Backend](channels int) *sliceChannels[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("sliceChannels: invalid channel count %d", channels))
	}
	return &sliceChannels[B]{channels: channels}
}

func (s *sliceChannels[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Narrow(-1, 0, s.channels)
}

func (s *sliceChannels[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

func (s *sliceChannels[B]) StateDict() map[string]*tensor.RawTensor {
	return nil
}

func (s *sliceChannels[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
