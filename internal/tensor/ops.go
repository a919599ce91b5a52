package tensor

// Operations delegate to the backend and wrap results in typed tensors.

// Add performs element-wise addition with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Add(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Sub(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Mul(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Div(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// MatMul performs 2D matrix multiplication.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.MatMul(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// BatchMatMul performs batched matrix multiplication:
// [B, M, K] @ [B, K, N] -> [B, M, N].
func (t *Tensor[T, B]) BatchMatMul(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.BatchMatMul(t.raw, other.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.MulScalar(t.raw, scalar)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// AddScalar adds a scalar to every element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.AddScalar(t.raw, scalar)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Softmax applies softmax along the given dimension.
// Negative dims count from the end.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	raw := t.backend.Softmax(t.raw, dim)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// SiLU applies the sigmoid linear unit activation: x * sigmoid(x).
func (t *Tensor[T, B]) SiLU() *Tensor[T, B] {
	raw := t.backend.SiLU(t.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Sigmoid applies the logistic function element-wise.
func (t *Tensor[T, B]) Sigmoid() *Tensor[T, B] {
	raw := t.backend.Sigmoid(t.raw)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Reshape returns a tensor with the same data and a new shape.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	raw := t.backend.Reshape(t.raw, Shape(newShape))
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Transpose permutes the tensor's dimensions.
// With no axes it reverses all dimensions.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	raw := t.backend.Transpose(t.raw, axes...)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Narrow selects [start, start+length) along dim.
func (t *Tensor[T, B]) Narrow(dim, start, length int) *Tensor[T, B] {
	raw := t.backend.Narrow(t.raw, dim, start, length)
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

// Half converts the tensor to float16 storage.
// The result is raw because float16 is not a compute type.
func (t *Tensor[T, B]) Half() *RawTensor {
	return t.backend.Cast(t.raw, Float16)
}
