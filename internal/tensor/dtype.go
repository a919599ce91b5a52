package tensor

// DType is the generic constraint for tensor element types.
type DType interface {
	float32 | float64 | int32 | uint8
}

// DataType identifies the runtime element type of a tensor.
type DataType int

// Supported data types. Float16 is a storage type: kernels compute in
// float32 and Cast converts between the two.
const (
	Float32 DataType = iota
	Float16
	Float64
	Int32
	Uint8
)

// Size returns the element size in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float16:
		return 2
	case Float64:
		return 8
	case Int32:
		return 4
	case Uint8:
		return 1
	default:
		panic("tensor: unknown data type")
	}
}

// String returns a human-readable type name.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// inferDataType maps a Go type to its DataType tag.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case uint8:
		return Uint8
	default:
		panic("tensor: unsupported element type")
	}
}
