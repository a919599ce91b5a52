package webgpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Add performs element-wise addition on GPU. Broadcasting shapes fall
// back to the CPU kernels; the WGSL shader requires identical shapes.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) {
		return b.fallback.Add(a, other)
	}
	result, err := b.runBinaryOp(a, other, "add", addShader)
	if err != nil {
		panic("webgpu: Add: " + err.Error())
	}
	return result
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) {
		return b.fallback.Sub(a, other)
	}
	result, err := b.runBinaryOp(a, other, "sub", subShader)
	if err != nil {
		panic("webgpu: Sub: " + err.Error())
	}
	return result
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) {
		return b.fallback.Mul(a, other)
	}
	result, err := b.runBinaryOp(a, other, "mul", mulShader)
	if err != nil {
		panic("webgpu: Mul: " + err.Error())
	}
	return result
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) {
		return b.fallback.Div(a, other)
	}
	result, err := b.runBinaryOp(a, other, "div", divShader)
	if err != nil {
		panic("webgpu: Div: " + err.Error())
	}
	return result
}

// MatMul performs 2D matrix multiplication on GPU.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), other.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("webgpu: matmul requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("webgpu: matmul shape mismatch %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result, err := b.runMatMul(a, other, 1, m, k, n, tensor.Shape{m, n})
	if err != nil {
		panic("webgpu: MatMul: " + err.Error())
	}
	return result
}

// BatchMatMul performs batched matrix multiplication on GPU.
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N].
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N].
func (b *Backend) BatchMatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), other.Shape()
	if len(aShape) != len(bShape) || (len(aShape) != 3 && len(aShape) != 4) {
		panic(fmt.Sprintf("webgpu: batchmatmul requires matching 3D or 4D tensors, got %v and %v", aShape, bShape))
	}

	batch := aShape[0]
	outShape := tensor.Shape{aShape[0]}
	if len(aShape) == 4 {
		if aShape[1] != bShape[1] {
			panic(fmt.Sprintf("webgpu: batchmatmul batch mismatch %v vs %v", aShape, bShape))
		}
		batch *= aShape[1]
		outShape = append(outShape, aShape[1])
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("webgpu: batchmatmul batch mismatch %v vs %v", aShape, bShape))
	}

	m := aShape[len(aShape)-2]
	k := aShape[len(aShape)-1]
	if bShape[len(bShape)-2] != k {
		panic(fmt.Sprintf("webgpu: batchmatmul inner dimension mismatch %v @ %v", aShape, bShape))
	}
	n := bShape[len(bShape)-1]
	outShape = append(outShape, m, n)

	result, err := b.runMatMul(a, other, batch, m, k, n, outShape)
	if err != nil {
		panic("webgpu: BatchMatMul: " + err.Error())
	}
	return result
}

// SiLU applies the sigmoid linear unit on GPU.
func (b *Backend) SiLU(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.runUnaryOp(x, "silu", siluShader)
	if err != nil {
		panic("webgpu: SiLU: " + err.Error())
	}
	return result
}

// Sigmoid applies the logistic function on GPU.
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.runUnaryOp(x, "sigmoid", sigmoidShader)
	if err != nil {
		panic("webgpu: Sigmoid: " + err.Error())
	}
	return result
}

// MulScalar multiplies every element by a scalar on GPU.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := b.runScalarOp(x, scalarToFloat32("mulscalar", scalar), "mulscalar", mulScalarShader)
	if err != nil {
		panic("webgpu: MulScalar: " + err.Error())
	}
	return result
}

// AddScalar adds a scalar to every element on GPU.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := b.runScalarOp(x, scalarToFloat32("addscalar", scalar), "addscalar", addScalarShader)
	if err != nil {
		panic("webgpu: AddScalar: " + err.Error())
	}
	return result
}

func scalarToFloat32(op string, scalar any) float32 {
	switch s := scalar.(type) {
	case float32:
		return s
	case float64:
		return float32(s)
	case int:
		return float32(s)
	default:
		panic(fmt.Sprintf("webgpu: %s: unsupported scalar type %T", op, scalar))
	}
}

// The structured operations below have no WGSL implementation yet and run
// on the pure-Go CPU kernels. Convolution dominates decode time, so it is
// the first candidate for a shader.

// Conv2D performs 2D convolution via the CPU kernels.
func (b *Backend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.fallback.Conv2D(input, kernel, stride, padding)
}

// Upsample2D performs nearest-neighbor upsampling via the CPU kernels.
func (b *Backend) Upsample2D(x *tensor.RawTensor, scale int) *tensor.RawTensor {
	return b.fallback.Upsample2D(x, scale)
}

// GroupNorm performs group normalization via the CPU kernels.
func (b *Backend) GroupNorm(x, gamma, beta *tensor.RawTensor, groups int, eps float32) *tensor.RawTensor {
	return b.fallback.GroupNorm(x, gamma, beta, groups, eps)
}

// Softmax applies softmax via the CPU kernels.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Softmax(x, dim)
}

// Reshape returns a tensor with a new shape; data is host-resident.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.fallback.Reshape(t, newShape)
}

// Transpose permutes dimensions via the CPU kernels.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.fallback.Transpose(t, axes...)
}

// Narrow slices a range along a dimension via the CPU kernels.
func (b *Backend) Narrow(t *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	return b.fallback.Narrow(t, dim, start, length)
}

// Cast converts the data type via the CPU kernels.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.fallback.Cast(x, dtype)
}
