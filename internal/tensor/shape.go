package tensor

import "fmt"

// Shape represents tensor dimensions, outermost first.
// The VAE stack uses channel-last layout: Shape{batch, height, width, channels}.
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("shape must have at least one dimension")
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("dimension %d must be positive, got %d", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes are identical.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// ComputeStrides returns row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// BroadcastShapes computes the broadcast result shape for two shapes
// following NumPy rules. The bool result reports whether either operand
// needs broadcasting.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		dimA, dimB := 1, 1
		if idx := len(a) - maxLen + i; idx >= 0 {
			dimA = a[idx]
		}
		if idx := len(b) - maxLen + i; idx >= 0 {
			dimB = b[idx]
		}

		switch {
		case dimA == dimB:
			result[i] = dimA
		case dimA == 1:
			result[i] = dimB
			needsBroadcast = true
		case dimB == 1:
			result[i] = dimA
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("cannot broadcast shapes %v and %v", a, b)
		}
	}

	return result, needsBroadcast, nil
}
