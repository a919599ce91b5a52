// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers the VAE graph is built
// from: channel-last convolution, group normalization, SiLU activation,
// nearest-neighbor upsampling and the Sequential container.
//
// All layers operate on (batch, height, width, channels) float32 tensors
// and are inference-only; pretrained weights arrive via LoadStateDict.
package nn
