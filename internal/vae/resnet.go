package vae

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// shortcut carries the residual path of a ResnetBlock. It is chosen once
// at construction: identity when the channel width is unchanged, a
// learned 1x1 projection when it grows or shrinks.
type shortcut[B tensor.Backend] interface {
	nn.Module[B]
}

// identityShortcut passes the input through unchanged.
type identityShortcut[B tensor.Backend] struct{}

func (identityShortcut[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}

func (identityShortcut[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

func (identityShortcut[B]) StateDict() map[string]*tensor.RawTensor {
	return nil
}

func (identityShortcut[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// ResnetBlock is the residual unit the VAE graph is built from:
//
//	h = conv1(SiLU(norm1(x)))
//	h = conv2(SiLU(norm2(h)))
//	out = shortcut(x) + h
//
// Spatial dimensions are preserved (3x3 convs, padding 1, stride 1);
// the channel width changes from in to out on the first convolution.
type ResnetBlock[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	norm1       *nn.GroupNorm[B]
	conv1       *nn.Conv2D[B]
	norm2       *nn.GroupNorm[B]
	conv2       *nn.Conv2D[B]
	shortcut    shortcut[B]
}

// NewResnetBlock creates a residual block mapping in to out channels.
func NewResnetBlock[B tensor.Backend](inChannels, outChannels int, backend B) *ResnetBlock[B] {
	var sc shortcut[B] = identityShortcut[B]{}
	if inChannels != outChannels {
		sc = nn.NewConv2D(inChannels, outChannels, 1, 1, 0, backend)
	}

	return &ResnetBlock[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		norm1:       nn.NewGroupNorm(normGroups, inChannels, backend),
		conv1:       nn.NewConv2D(inChannels, outChannels, 3, 1, 1, backend),
		norm2:       nn.NewGroupNorm(normGroups, outChannels, backend),
		conv2:       nn.NewConv2D(outChannels, outChannels, 3, 1, 1, backend),
		shortcut:    sc,
	}
}

// Forward computes the residual unit. Input [N, H, W, in] -> [N, H, W, out].
func (r *ResnetBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != r.inChannels {
		panic(fmt.Sprintf("ResnetBlock.Forward: expected [N,H,W,%d], got %v", r.inChannels, shape))
	}

	h := r.conv1.Forward(r.norm1.Forward(input).SiLU())
	h = r.conv2.Forward(r.norm2.Forward(h).SiLU())
	return r.shortcut.Forward(input).Add(h)
}

// Parameters returns the parameters of all sub-layers.
func (r *ResnetBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, r.norm1.Parameters()...)
	params = append(params, r.conv1.Parameters()...)
	params = append(params, r.norm2.Parameters()...)
	params = append(params, r.conv2.Parameters()...)
	params = append(params, r.shortcut.Parameters()...)
	return params
}

// StateDict returns parameters under "norm1", "conv1", "norm2", "conv2"
// and, for projection blocks, "nin_shortcut".
func (r *ResnetBlock[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	prefixInto(stateDict, "norm1", r.norm1.StateDict())
	prefixInto(stateDict, "conv1", r.conv1.StateDict())
	prefixInto(stateDict, "norm2", r.norm2.StateDict())
	prefixInto(stateDict, "conv2", r.conv2.StateDict())
	if sc := r.shortcut.StateDict(); sc != nil {
		prefixInto(stateDict, "nin_shortcut", sc)
	}
	return stateDict
}

// LoadStateDict loads all sub-layer parameters. "nin_shortcut" entries
// are required exactly when the block projects.
func (r *ResnetBlock[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadSub(stateDict, "norm1", r.norm1.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "conv1", r.conv1.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "norm2", r.norm2.LoadStateDict); err != nil {
		return err
	}
	if err := loadSub(stateDict, "conv2", r.conv2.LoadStateDict); err != nil {
		return err
	}
	if r.inChannels != r.outChannels {
		return loadSub(stateDict, "nin_shortcut", r.shortcut.LoadStateDict)
	}
	return nil
}
