package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32("mulscalar", scalar)
	checkFloat32("mulscalar", x)

	result := newRaw(x.Shape(), cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()
	for i := range out {
		out[i] = in[i] * s
	}
	return result
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32("addscalar", scalar)
	checkFloat32("addscalar", x)

	result := newRaw(x.Shape(), cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()
	for i := range out {
		out[i] = in[i] + s
	}
	return result
}

// toFloat32 converts a scalar argument to float32.
func toFloat32(op string, scalar any) float32 {
	switch v := scalar.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}
