// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies the RawTensor alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())

	clone := raw.Clone()
	require.NotNil(t, clone)
	assert.False(t, raw.IsUnique(), "refcount > 1 after Clone")

	clone.Release()
	assert.True(t, raw.IsUnique(), "refcount == 1 after Release")
}

func TestFromSliceAndAt(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(6), x.At(1, 2))

	x.Set(42, 1, 0)
	assert.Equal(t, float32(42), x.At(1, 0))
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	backend := cpu.New()

	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)
}

func TestOpsChain(t *testing.T) {
	backend := cpu.New()

	x := tensor.Full[float32](tensor.Shape{2, 2}, 2, backend)
	y := tensor.Ones[float32](tensor.Shape{2, 2}, backend)

	z := x.Add(y).MulScalar(3) // (2+1)*3 = 9
	for _, v := range z.Data() {
		assert.Equal(t, float32(9), v)
	}
}

func TestBroadcastShapes(t *testing.T) {
	result, needs, err := tensor.BroadcastShapes(tensor.Shape{1, 2, 2, 3}, tensor.Shape{1, 1, 1, 3})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.True(t, result.Equal(tensor.Shape{1, 2, 2, 3}))

	_, _, err = tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{2, 4})
	assert.Error(t, err)
}

// TestHalfRoundTrip verifies float16 storage conversion through the
// typed API.
func TestHalfRoundTrip(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{0, 1, -2.5}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	half := x.Half()
	assert.Equal(t, tensor.Float16, half.DType())

	back := backend.Cast(half, tensor.Float32)
	assert.Equal(t, []float32{0, 1, -2.5}, back.AsFloat32())
}
