package cpu

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// broadcastBinary applies op over two tensors broadcast to outShape.
// Indices are mapped by clamping broadcast dimensions (size 1) to zero.
func broadcastBinary(out []float32, a, b *tensor.RawTensor, outShape tensor.Shape, op func(x, y float32) float32) {
	da, db := a.AsFloat32(), b.AsFloat32()
	aShape, bShape := a.Shape(), b.Shape()
	aStrides, bStrides := aShape.ComputeStrides(), bShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	ndim := len(outShape)
	aOffset := ndim - len(aShape)
	bOffset := ndim - len(bShape)

	idx := make([]int, ndim)
	for flat := range out {
		// Decompose flat index into multi-index.
		rem := flat
		for d := 0; d < ndim; d++ {
			idx[d] = rem / outStrides[d]
			rem %= outStrides[d]
		}

		aIdx, bIdx := 0, 0
		for d := 0; d < ndim; d++ {
			if ad := d - aOffset; ad >= 0 && aShape[ad] != 1 {
				aIdx += idx[d] * aStrides[ad]
			}
			if bd := d - bOffset; bd >= 0 && bShape[bd] != 1 {
				bIdx += idx[d] * bStrides[bd]
			}
		}

		out[flat] = op(da[aIdx], db[bIdx])
	}
}
