package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Upsample2D performs nearest-neighbor spatial upsampling:
// [N, H, W, C] -> [N, H*scale, W*scale, C].
func (cpu *CPUBackend) Upsample2D(x *tensor.RawTensor, scale int) *tensor.RawTensor {
	checkFloat32("upsample2d", x)

	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("upsample2d: input must be 4D [N,H,W,C], got %dD", len(shape)))
	}
	if scale <= 0 {
		panic(fmt.Sprintf("upsample2d: invalid scale %d", scale))
	}

	N, H, W, C := shape[0], shape[1], shape[2], shape[3]
	HOut, WOut := H*scale, W*scale

	result := newRaw(tensor.Shape{N, HOut, WOut, C}, cpu.device)
	in, out := x.AsFloat32(), result.AsFloat32()

	for n := 0; n < N; n++ {
		for h := 0; h < HOut; h++ {
			srcRowBase := ((n*H + h/scale) * W) * C
			dstRowBase := ((n*HOut + h) * WOut) * C
			for w := 0; w < WOut; w++ {
				src := srcRowBase + (w/scale)*C
				dst := dstRowBase + w*C
				copy(out[dst:dst+C], in[src:src+C])
			}
		}
	}

	return result
}
