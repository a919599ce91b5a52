package cpu

import (
	"fmt"
	"math"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// GroupNorm normalizes a channel-last tensor over (height, width,
// channels-per-group) for each batch element and channel group:
//
//	y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// Input shape [N, H, W, C]; gamma and beta have shape [C] and may be nil,
// in which case scale/shift is skipped. C must be divisible by groups.
// Statistics use the biased variance, matching standard group normalization.
func (cpu *CPUBackend) GroupNorm(x, gamma, beta *tensor.RawTensor, groups int, eps float32) *tensor.RawTensor {
	checkFloat32("groupnorm", x)

	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("groupnorm: input must be 4D [N,H,W,C], got %dD", len(shape)))
	}
	N, H, W, C := shape[0], shape[1], shape[2], shape[3]
	if groups <= 0 || C%groups != 0 {
		panic(fmt.Sprintf("groupnorm: channels %d not divisible by groups %d", C, groups))
	}

	var gammaData, betaData []float32
	if gamma != nil {
		checkFloat32("groupnorm", gamma)
		if !gamma.Shape().Equal(tensor.Shape{C}) {
			panic(fmt.Sprintf("groupnorm: gamma shape %v, want [%d]", gamma.Shape(), C))
		}
		gammaData = gamma.AsFloat32()
	}
	if beta != nil {
		checkFloat32("groupnorm", beta)
		if !beta.Shape().Equal(tensor.Shape{C}) {
			panic(fmt.Sprintf("groupnorm: beta shape %v, want [%d]", beta.Shape(), C))
		}
		betaData = beta.AsFloat32()
	}

	result := newRaw(shape, cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()

	groupSize := C / groups
	spatial := H * W

	for n := 0; n < N; n++ {
		batchBase := n * spatial * C
		for g := 0; g < groups; g++ {
			cStart := g * groupSize

			// Mean and variance over H*W*groupSize elements.
			sum, sumSq := float64(0), float64(0)
			for p := 0; p < spatial; p++ {
				base := batchBase + p*C + cStart
				for c := 0; c < groupSize; c++ {
					v := float64(in[base+c])
					sum += v
					sumSq += v * v
				}
			}
			count := float64(spatial * groupSize)
			mean := sum / count
			variance := sumSq/count - mean*mean
			invStd := 1.0 / math.Sqrt(variance+float64(eps))

			for p := 0; p < spatial; p++ {
				base := batchBase + p*C + cStart
				for c := 0; c < groupSize; c++ {
					normalized := float32((float64(in[base+c]) - mean) * invStd)
					ch := cStart + c
					if gammaData != nil {
						normalized *= gammaData[ch]
					}
					if betaData != nil {
						normalized += betaData[ch]
					}
					out[base+c] = normalized
				}
			}
		}
	}

	return result
}
