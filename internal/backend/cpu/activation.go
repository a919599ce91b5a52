package cpu

import (
	"fmt"
	"math"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// SiLU applies the sigmoid linear unit element-wise: x * sigmoid(x).
func (cpu *CPUBackend) SiLU(x *tensor.RawTensor) *tensor.RawTensor {
	checkFloat32("silu", x)

	result := newRaw(x.Shape(), cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()
	for i, v := range in {
		out[i] = v * sigmoid(v)
	}
	return result
}

// Sigmoid applies the logistic function element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	checkFloat32("sigmoid", x)

	result := newRaw(x.Shape(), cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()
	for i, v := range in {
		out[i] = sigmoid(v)
	}
	return result
}

func sigmoid(v float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(v))))
}

// Softmax applies softmax along the given dimension with max-subtraction
// for numerical stability. Negative dims count from the end.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	checkFloat32("softmax", x)

	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("softmax: dimension %d out of range for shape %v", dim, shape))
	}

	// Treat the tensor as [outer, size, inner] around the softmax dim.
	size := shape[dim]
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	result := newRaw(shape, cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for in_ := 0; in_ < inner; in_++ {
			base := o*size*inner + in_

			maxVal := in[base]
			for s := 1; s < size; s++ {
				if v := in[base+s*inner]; v > maxVal {
					maxVal = v
				}
			}

			sum := float32(0)
			for s := 0; s < size; s++ {
				e := float32(math.Exp(float64(in[base+s*inner] - maxVal)))
				out[base+s*inner] = e
				sum += e
			}

			for s := 0; s < size; s++ {
				out[base+s*inner] /= sum
			}
		}
	}

	return result
}
