package vae

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

func zeroRaw(t *testing.T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	return raw
}

func TestResnetBlock_IdentityShortcut(t *testing.T) {
	backend := cpu.New()
	block := NewResnetBlock(32, 32, backend)

	// Zero the second convolution so the learned branch contributes
	// nothing; the identity shortcut must then return the input exactly.
	stateDict := block.StateDict()
	stateDict["conv2.weight"] = zeroRaw(t, tensor.Shape{3, 3, 32, 32})
	stateDict["conv2.bias"] = zeroRaw(t, tensor.Shape{32})
	require.NoError(t, block.LoadStateDict(stateDict))

	input := nn.Randn(tensor.Shape{1, 4, 4, 32}, backend)
	output := block.Forward(input)

	assert.Equal(t, input.Shape(), output.Shape())
	assert.Equal(t, input.Raw().AsFloat32(), output.Raw().AsFloat32(),
		"with a zeroed residual branch the block must be the identity")
}

func TestResnetBlock_ProjectionShortcut(t *testing.T) {
	backend := cpu.New()
	block := NewResnetBlock(32, 64, backend)

	input := nn.Randn(tensor.Shape{1, 4, 4, 32}, backend)
	output := block.Forward(input)

	assert.Equal(t, tensor.Shape{1, 4, 4, 64}, output.Shape())

	// Projection blocks expose the 1x1 shortcut in the state dict.
	stateDict := block.StateDict()
	require.Contains(t, stateDict, "nin_shortcut.weight")
	require.Contains(t, stateDict, "nin_shortcut.bias")
	assert.Equal(t, tensor.Shape{1, 1, 32, 64}, stateDict["nin_shortcut.weight"].Shape())
}

func TestResnetBlock_IdentityHasNoShortcutParams(t *testing.T) {
	backend := cpu.New()
	block := NewResnetBlock(32, 32, backend)

	var keys []string
	for key := range block.StateDict() {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	want := []string{
		"conv1.bias", "conv1.weight",
		"conv2.bias", "conv2.weight",
		"norm1.bias", "norm1.weight",
		"norm2.bias", "norm2.weight",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("state dict keys mismatch (-want +got):\n%s", diff)
	}
}

func TestAttentionBlock_PreservesShape(t *testing.T) {
	backend := cpu.New()
	block := NewAttentionBlock(32, backend)

	input := nn.Randn(tensor.Shape{2, 4, 4, 32}, backend)
	output := block.Forward(input)

	assert.Equal(t, input.Shape(), output.Shape())
}

func TestAttentionBlock_ZeroProjectionIsIdentity(t *testing.T) {
	backend := cpu.New()
	block := NewAttentionBlock(32, backend)

	// The block adds proj_out(attention) to its input; with proj_out
	// zeroed the residual connection passes the input through exactly.
	stateDict := block.StateDict()
	stateDict["proj_out.weight"] = zeroRaw(t, tensor.Shape{1, 1, 32, 32})
	stateDict["proj_out.bias"] = zeroRaw(t, tensor.Shape{32})
	require.NoError(t, block.LoadStateDict(stateDict))

	input := nn.Randn(tensor.Shape{1, 4, 4, 32}, backend)
	output := block.Forward(input)

	assert.Equal(t, input.Raw().AsFloat32(), output.Raw().AsFloat32())
}

func TestAttentionBlock_StateDictKeys(t *testing.T) {
	backend := cpu.New()
	block := NewAttentionBlock(32, backend)

	stateDict := block.StateDict()
	for _, key := range []string{
		"norm.weight", "norm.bias",
		"q.weight", "q.bias",
		"k.weight", "k.bias",
		"v.weight", "v.bias",
		"proj_out.weight", "proj_out.bias",
	} {
		assert.Contains(t, stateDict, key)
	}
}

func TestEncoder_ZeroImageShape(t *testing.T) {
	backend := cpu.New()
	encoder := NewEncoder(backend)

	input := nn.Zeros(tensor.Shape{1, 64, 64, 3}, backend)
	output := encoder.Forward(input)

	assert.Equal(t, tensor.Shape{1, 8, 8, 4}, output.Shape())
}

func TestEncoder_RejectsIndivisibleDims(t *testing.T) {
	backend := cpu.New()
	encoder := NewEncoder(backend)

	input := nn.Zeros(tensor.Shape{1, 60, 64, 3}, backend)
	assert.Panics(t, func() { encoder.Forward(input) })
}

func TestEncoder_RejectsWrongChannels(t *testing.T) {
	backend := cpu.New()
	encoder := NewEncoder(backend)

	input := nn.Zeros(tensor.Shape{1, 64, 64, 4}, backend)
	assert.Panics(t, func() { encoder.Forward(input) })
}

func TestDecoder_Shape(t *testing.T) {
	backend := cpu.New()
	decoder := NewDecoder(backend)

	input := nn.Zeros(tensor.Shape{1, 4, 4, 4}, backend)
	output := decoder.Forward(input)

	assert.Equal(t, tensor.Shape{1, 32, 32, 3}, output.Shape())
}

func TestDecoder_RejectsWrongChannels(t *testing.T) {
	backend := cpu.New()
	decoder := NewDecoder(backend)

	input := nn.Zeros(tensor.Shape{1, 4, 4, 3}, backend)
	assert.Panics(t, func() { decoder.Forward(input) })
}

// TestRoundTripShape tests that Decoder(Encoder(x)) recovers x's shape.
func TestRoundTripShape(t *testing.T) {
	if testing.Short() {
		t.Skip("full encode/decode round trip is slow")
	}

	backend := cpu.New()
	encoder := NewEncoder(backend)
	decoder := NewDecoder(backend)

	input := nn.Zeros(tensor.Shape{1, 32, 32, 3}, backend)
	latent := encoder.Forward(input)
	require.Equal(t, tensor.Shape{1, 4, 4, 4}, latent.Shape())

	output := decoder.Forward(latent)
	assert.Equal(t, input.Shape(), output.Shape())
}

// TestEncoder_StateDictRoundTrip loads the encoder's own weights back.
func TestEncoder_StateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	encoder := NewEncoder(backend)

	stateDict := encoder.StateDict()
	require.NotEmpty(t, stateDict)
	require.NoError(t, encoder.LoadStateDict(stateDict))
}
