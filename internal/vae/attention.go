package vae

import (
	"fmt"
	"math"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// AttentionBlock applies single-head self-attention over spatial
// positions with a residual connection:
//
//	h = GroupNorm(x)
//	q, k, v = 1x1 convs of h
//	scores = softmax(q @ k^T * C^-0.5)   over key positions
//	out = x + proj_out(scores @ v)
//
// Every pixel attends to every other pixel; the spatial grid is flattened
// to a sequence of H*W positions. Input and output shapes are identical.
type AttentionBlock[B tensor.Backend] struct {
	channels int
	norm     *nn.GroupNorm[B]
	q        *nn.Conv2D[B]
	k        *nn.Conv2D[B]
	v        *nn.Conv2D[B]
	projOut  *nn.Conv2D[B]
}

// NewAttentionBlock creates an attention block for the given channel width.
func NewAttentionBlock[B tensor.Backend](channels int, backend B) *AttentionBlock[B] {
	return &AttentionBlock[B]{
		channels: channels,
		norm:     nn.NewGroupNorm(normGroups, channels, backend),
		q:        nn.NewConv2D(channels, channels, 1, 1, 0, backend),
		k:        nn.NewConv2D(channels, channels, 1, 1, 0, backend),
		v:        nn.NewConv2D(channels, channels, 1, 1, 0, backend),
		projOut:  nn.NewConv2D(channels, channels, 1, 1, 0, backend),
	}
}

// Forward computes attention. Input shape [N, H, W, C] with C matching
// the block's channel width; output has the same shape.
func (a *AttentionBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != a.channels {
		panic(fmt.Sprintf("AttentionBlock.Forward: expected [N,H,W,%d], got %v", a.channels, shape))
	}

	h := a.norm.Forward(input)
	q := a.q.Forward(h)
	k := a.k.Forward(h)
	v := a.v.Forward(h)

	n, height, width, c := shape[0], shape[1], shape[2], shape[3]
	seq := height * width

	// Flatten the spatial grid: q [N, HW, C], k transposed to [N, C, HW].
	q3 := q.Reshape(n, seq, c)
	k3 := k.Reshape(n, seq, c).Transpose(0, 2, 1)

	// scores[b, i, j]: how much position i attends to position j.
	scores := q3.BatchMatMul(k3)
	scores = scores.MulScalar(float32(1.0 / math.Sqrt(float64(c))))
	scores = scores.Softmax(-1)

	// Weighted sum of values: [N, HW, HW] @ [N, HW, C] -> [N, HW, C].
	v3 := v.Reshape(n, seq, c)
	attended := scores.BatchMatMul(v3)

	out := a.projOut.Forward(attended.Reshape(n, height, width, c))
	return input.Add(out)
}

// Parameters returns the parameters of all sub-layers.
func (a *AttentionBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, a.norm.Parameters()...)
	params = append(params, a.q.Parameters()...)
	params = append(params, a.k.Parameters()...)
	params = append(params, a.v.Parameters()...)
	params = append(params, a.projOut.Parameters()...)
	return params
}

// StateDict returns parameters under "norm", "q", "k", "v" and
// "proj_out" prefixes.
func (a *AttentionBlock[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	prefixInto(stateDict, "norm", a.norm.StateDict())
	prefixInto(stateDict, "q", a.q.StateDict())
	prefixInto(stateDict, "k", a.k.StateDict())
	prefixInto(stateDict, "v", a.v.StateDict())
	prefixInto(stateDict, "proj_out", a.projOut.StateDict())
	return stateDict
}

// LoadStateDict loads all sub-layer parameters.
func (a *AttentionBlock[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadSub(stateDict, "norm", a.norm.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "q", a.q.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "k", a.k.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "v", a.v.LoadStateDict); err != nil {
		return err
	}
	return loadSub(stateDict, "proj_out", a.projOut.LoadStateDict)
}
