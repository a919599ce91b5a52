// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vae provides the variational autoencoder of latent diffusion
// image pipelines: an Encoder mapping channel-last RGB images
// (B, H, W, 3) to latents (B, H/8, W/8, 4) and a Decoder mapping latents
// back to images (B, 8H, 8W, 3).
//
// Example:
//
//	backend := cpu.New()
//	encoder := vae.NewEncoder(backend)
//	decoder := vae.NewDecoder(backend)
//
//	latent := encoder.Forward(image) // (1, 64, 64, 3) -> (1, 8, 8, 4)
//	restored := decoder.Forward(latent)
//
// Freshly constructed models carry random weights; inject pretrained
// parameters with LoadStateDict.
package vae

import (
	"github.com/mirage-ml/mirage/internal/tensor"
	"github.com/mirage-ml/mirage/internal/vae"
)

// LatentScaleFactor scales encoder outputs into the range diffusion
// models are trained on; the decoder divides it back out.
const LatentScaleFactor = vae.LatentScaleFactor

// LatentChannels is the width of the latent space.
const LatentChannels = vae.LatentChannels

// Encoder maps images (B, H, W, 3) to latents (B, H/8, W/8, 4).
// H and W must be divisible by 8.
type Encoder[B tensor.Backend] = vae.Encoder[B]

// NewEncoder creates an encoder with freshly initialized weights.
func NewEncoder[B tensor.Backend](backend B) *Encoder[B] {
	return vae.NewEncoder(backend)
}

// Decoder maps latents (B, H, W, 4) to images (B, 8H, 8W, 3).
type Decoder[B tensor.Backend] = vae.Decoder[B]

// NewDecoder creates a decoder with freshly initialized weights.
func NewDecoder[B tensor.Backend](backend B) *Decoder[B] {
	return vae.NewDecoder(backend)
}

// ResnetBlock is the residual unit the VAE graph is built from.
type ResnetBlock[B tensor.Backend] = vae.ResnetBlock[B]

// NewResnetBlock creates a residual block mapping in to out channels;
// the shortcut is identity when in == out, a learned 1x1 conv otherwise.
func NewResnetBlock[B tensor.Backend](inChannels, outChannels int, backend B) *ResnetBlock[B] {
	return vae.NewResnetBlock(inChannels, outChannels, backend)
}

// AttentionBlock applies single-head self-attention over spatial
// positions with a residual connection.
type AttentionBlock[B tensor.Backend] = vae.AttentionBlock[B]

// NewAttentionBlock creates an attention block for the given channel width.
func NewAttentionBlock[B tensor.Backend](channels int, backend B) *AttentionBlock[B] {
	return vae.NewAttentionBlock(channels, backend)
}
