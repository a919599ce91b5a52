// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a named weight tensor of a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Conv2D represents a channel-last 2D convolutional layer with zero padding.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with square kernels.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(3, 128, 3, 1, 1, backend) // 3x3, stride 1, padding 1
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, backend)
}

// GroupNorm represents a group normalization layer.
type GroupNorm[B tensor.Backend] = nn.GroupNorm[B]

// NewGroupNorm creates a group normalization layer with learnable
// per-channel scale and shift. numChannels must be divisible by numGroups.
func NewGroupNorm[B tensor.Backend](numGroups, numChannels int, backend B) *GroupNorm[B] {
	return nn.NewGroupNorm(numGroups, numChannels, backend)
}

// SiLU is the sigmoid linear unit activation module: f(x) = x * sigmoid(x).
type SiLU[B tensor.Backend] = nn.SiLU[B]

// NewSiLU creates a new SiLU activation module.
func NewSiLU[B tensor.Backend]() *SiLU[B] {
	return nn.NewSiLU[B]()
}

// Upsample2D is a nearest-neighbor spatial upsampling module.
type Upsample2D[B tensor.Backend] = nn.Upsample2D[B]

// NewUpsample2D creates an upsampling module with the given integer scale.
func NewUpsample2D[B tensor.Backend](scale int) *Upsample2D[B] {
	return nn.NewUpsample2D[B](scale)
}

// Containers

// Sequential chains modules so each module's output feeds the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier initializes a tensor with the Xavier/Glorot uniform distribution.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
