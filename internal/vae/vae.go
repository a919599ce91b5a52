// Package vae implements the variational autoencoder used by latent
// diffusion image pipelines.
//
// The package provides the Encoder, which maps channel-last RGB images
// (B, H, W, 3) to latents (B, H/8, W/8, 4), and the Decoder, which maps
// latents back to images (B, 8H, 8W, 3). Both are static graphs built
// from ResnetBlock and AttentionBlock over the nn layer set; topology and
// channel widths are fixed at construction.
//
// Weights are injected through LoadStateDict with dotted hierarchical
// names; freshly constructed models carry random initialization.
package vae

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// LatentScaleFactor scales encoder outputs into the range diffusion
// models are trained on; the decoder divides it back out.
const LatentScaleFactor = 0.18215

// LatentChannels is the width of the latent space.
const LatentChannels = 4

// normGroups is the group count of every GroupNorm in the graph.
const normGroups = 32

// prefixInto copies src entries into dst with a dotted prefix.
func prefixInto(dst map[string]*tensor.RawTensor, prefix string, src map[string]*tensor.RawTensor) {
	for name, raw := range src {
		dst[prefix+"."+name] = raw
	}
}

// subDict extracts the entries under a dotted prefix, with the prefix
// stripped. Returns an empty map when nothing matches.
func subDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	p := prefix + "."
	for key, raw := range stateDict {
		if len(key) > len(p) && key[:len(p)] == p {
			sub[key[len(p):]] = raw
		}
	}
	return sub
}

// loadSub loads a named child module from the parent state dict,
// wrapping errors with the child's name.
func loadSub(stateDict map[string]*tensor.RawTensor, prefix string, load func(map[string]*tensor.RawTensor) error) error {
	sub := subDict(stateDict, prefix)
	if len(sub) == 0 {
		return fmt.Errorf("missing parameters for %s", prefix)
	}
	if err := load(sub); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}
