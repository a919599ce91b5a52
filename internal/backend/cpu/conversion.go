package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Cast converts a tensor to a different data type. Float16 is a storage
// format only; casting to it and back is the supported round trip.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	switch {
	case x.DType() == tensor.Float32 && dtype == tensor.Float16:
		in, out := x.AsFloat32(), result.AsFloat16()
		for i, v := range in {
			out[i] = float16.Fromfloat32(v)
		}
	case x.DType() == tensor.Float16 && dtype == tensor.Float32:
		in, out := x.AsFloat16(), result.AsFloat32()
		for i, v := range in {
			out[i] = v.Float32()
		}
	case x.DType() == tensor.Float32 && dtype == tensor.Float64:
		in, out := x.AsFloat32(), result.AsFloat64()
		for i, v := range in {
			out[i] = float64(v)
		}
	case x.DType() == tensor.Float64 && dtype == tensor.Float32:
		in, out := x.AsFloat64(), result.AsFloat32()
		for i, v := range in {
			out[i] = float32(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported conversion %s -> %s", x.DType(), dtype))
	}

	return result
}
