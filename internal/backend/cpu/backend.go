// Package cpu implements the pure-Go CPU backend for the VAE tensor stack.
package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// CPUBackend implements tensor operations with pure Go kernels.
// All compute kernels operate on float32 data; Float16 is handled by Cast.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp applies op element-wise, using a vectorizable fast path when
// shapes match exactly and falling back to broadcasting otherwise.
func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, op func(x, y float32) float32) *tensor.RawTensor {
	checkFloat32(name, a)
	checkFloat32(name, b)

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := newRaw(outShape, cpu.device)
	out := result.AsFloat32()

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		da, db := a.AsFloat32(), b.AsFloat32()
		for i := range out {
			out[i] = op(da[i], db[i])
		}
		return result
	}

	broadcastBinary(out, a, b, outShape, op)
	return result
}

// checkFloat32 panics when a kernel receives a non-float32 tensor.
func checkFloat32(op string, t *tensor.RawTensor) {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s (compute kernels are float32)", op, t.DType()))
	}
}

// newRaw allocates a float32 RawTensor or panics; kernel-internal helper.
func newRaw(shape tensor.Shape, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to allocate result tensor: %v", err))
	}
	return result
}
