package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkFloat32("matmul", a)
	checkFloat32("matmul", b)

	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: shape mismatch %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result := newRaw(tensor.Shape{m, n}, cpu.device)
	matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	return result
}

// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N].
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N].
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkFloat32("batchmatmul", a)
	checkFloat32("batchmatmul", b)

	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != len(bShape) || (len(aShape) != 3 && len(aShape) != 4) {
		panic(fmt.Sprintf("batchmatmul: requires matching 3D or 4D tensors, got %v and %v", aShape, bShape))
	}

	// Fold leading dimensions into one batch dimension.
	batch := aShape[0]
	outShape := tensor.Shape{aShape[0]}
	if len(aShape) == 4 {
		if aShape[1] != bShape[1] {
			panic(fmt.Sprintf("batchmatmul: batch mismatch %v vs %v", aShape, bShape))
		}
		batch *= aShape[1]
		outShape = append(outShape, aShape[1])
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("batchmatmul: batch mismatch %v vs %v", aShape, bShape))
	}

	m := aShape[len(aShape)-2]
	k := aShape[len(aShape)-1]
	if bShape[len(bShape)-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch %v @ %v", aShape, bShape))
	}
	n := bShape[len(bShape)-1]
	outShape = append(outShape, m, n)

	result := newRaw(outShape, cpu.device)

	da, db, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
	for bi := 0; bi < batch; bi++ {
		matmulKernel(out[bi*m*n:(bi+1)*m*n], da[bi*m*k:(bi+1)*m*k], db[bi*k*n:(bi+1)*k*n], m, k, n)
	}
	return result
}

// matmulKernel computes c = a @ b for row-major float32 matrices.
// The loop order (i, l, j) streams both b and c rows for cache locality.
func matmulKernel(c, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		cRow := c[i*n : (i+1)*n]
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			bRow := b[l*n : (l+1)*n]
			for j := range cRow {
				cRow[j] += av * bRow[j]
			}
		}
	}
}
