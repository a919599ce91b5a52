package tensor

// Backend defines the compute operations the VAE graph requires.
// Backends own the actual kernels; tensors only carry data and shape.
//
// All tensors are channel-last: images and feature maps are
// [batch, height, width, channels], convolution kernels are
// [kernel_h, kernel_w, in_channels, out_channels].
//
// Implementations:
//   - CPU: pure Go kernels
//   - WebGPU: GPU paths for elementwise/matmul ops, CPU delegation elsewhere
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor
	// BatchMatMul performs batched matrix multiplication:
	// [B, M, K] @ [B, K, N] -> [B, M, N].
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Conv2D zero-pads `padding` pixels on every spatial edge, then applies
	// a valid convolution with the given stride.
	// Input [N, H, W, C_in], kernel [K_h, K_w, C_in, C_out],
	// output [N, H', W', C_out] with H' = (H + 2*padding - K_h)/stride + 1.
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Upsample2D repeats each spatial position scale times along height
	// and width (nearest neighbor): [N, H, W, C] -> [N, H*scale, W*scale, C].
	Upsample2D(x *RawTensor, scale int) *RawTensor

	// GroupNorm normalizes over (height, width, channels-per-group) for each
	// batch element and group, then applies per-channel scale and shift.
	// gamma and beta have shape [C] and may be nil.
	GroupNorm(x, gamma, beta *RawTensor, groups int, eps float32) *RawTensor

	// Activations.
	SiLU(x *RawTensor) *RawTensor    // x * sigmoid(x)
	Sigmoid(x *RawTensor) *RawTensor // 1 / (1 + exp(-x))

	// Softmax along a dimension; negative dim counts from the end.
	Softmax(x *RawTensor, dim int) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	// Narrow selects [start, start+length) along dim.
	Narrow(t *RawTensor, dim, start, length int) *RawTensor

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
