// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col algorithm for channel-last convolutions
//   - NumPy-compatible broadcasting
//   - Group normalization, softmax and nearest-neighbor upsampling kernels
//
// # Basic Usage
//
//	import (
//	    "github.com/mirage-ml/mirage/backend/cpu"
//	    "github.com/mirage-ml/mirage/tensor"
//	    "github.com/mirage-ml/mirage/vae"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    image := tensor.Zeros[float32](tensor.Shape{1, 64, 64, 3}, backend)
//	    encoder := vae.NewEncoder(backend)
//	    latent := encoder.Forward(image)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation is
// isolated and does not share mutable state.
package cpu
