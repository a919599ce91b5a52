// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated tensor
// operations.
//
// Element-wise ops, activations and matrix multiplication run as WGSL
// compute shaders; the remaining operations run on the pure Go CPU
// kernels, so the backend always implements the full operation set.
//
// Example:
//
//	import (
//	    "github.com/mirage-ml/mirage/backend/webgpu"
//	    "github.com/mirage-ml/mirage/vae"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    decoder := vae.NewDecoder(gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/mirage-ml/mirage/internal/backend/webgpu"
	"github.com/mirage-ml/mirage/tensor"
)

// Backend represents the WebGPU backend implementation for GPU-accelerated
// tensor operations.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend ready
// for tensor operations. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g. no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It attempts to initialize a WebGPU adapter to verify that a compatible
// GPU and drivers are present. Useful for choosing a backend at startup:
//
//	if webgpu.IsAvailable() {
//	    backend, _ := webgpu.New()
//	    ...
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
