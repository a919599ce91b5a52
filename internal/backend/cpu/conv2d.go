package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Conv2D performs 2D convolution on channel-last input using im2col.
//
// Input shape:  [N, H, W, C_in]
// Kernel shape: [K_h, K_w, C_in, C_out]
// Output shape: [N, H_out, W_out, C_out]
//
// Where:
//
//	out_h = (H + 2*padding - K_h) / stride + 1
//	out_w = (W + 2*padding - K_w) / stride + 1
//
// The input is conceptually zero-padded `padding` pixels on every spatial
// edge before a valid convolution; the padding is realized inside im2col as
// out-of-bounds zeros rather than by materializing a padded tensor.
//
// Algorithm: im2col converts the convolution into one matrix multiplication
//
//	[N*H_out*W_out, K_h*K_w*C_in] @ [K_h*K_w*C_in, C_out]
//
// and because the kernel is stored [K_h, K_w, C_in, C_out], the result is
// already the NHWC output in row-major order; no rearrange pass is needed.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	checkFloat32("conv2d", input)
	checkFloat32("conv2d", kernel)

	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	N := inputShape[0]
	H := inputShape[1]
	W := inputShape[2]
	CIn := inputShape[3]
	KH := kernelShape[0]
	KW := kernelShape[1]
	CInK := kernelShape[2]
	COut := kernelShape[3]

	if CIn != CInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", CIn, CInK))
	}

	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions out_h=%d, out_w=%d (check stride/padding)", HOut, WOut))
	}

	output := newRaw(tensor.Shape{N, HOut, WOut, COut}, cpu.device)

	inputData := input.AsFloat32()
	kernelData := kernel.AsFloat32()
	outputData := output.AsFloat32()

	// Step 1: im2col.
	// colBuf: [N*H_out*W_out, K_h*K_w*C_in]
	colWidth := KH * KW * CIn
	colHeight := N * HOut * WOut
	colBuf := make([]float32, colHeight*colWidth)
	im2col(colBuf, inputData, N, H, W, CIn, KH, KW, HOut, WOut, stride, padding)

	// Step 2: matmul. kernelData is already [K_h*K_w*C_in, C_out] row-major,
	// so outputData[row*COut + co] lands directly in NHWC order.
	for row := 0; row < colHeight; row++ {
		colRow := colBuf[row*colWidth : (row+1)*colWidth]
		outRow := outputData[row*COut : (row+1)*COut]
		for k, cv := range colRow {
			if cv == 0 {
				continue
			}
			kernRow := kernelData[k*COut : (k+1)*COut]
			for co := range outRow {
				outRow[co] += cv * kernRow[co]
			}
		}
	}

	return output
}

// im2col extracts convolution patches into rows of colBuf.
//
// Input: [N, H, W, C]; each row of colBuf corresponds to one output position
// and holds the patch flattened in (kh, kw, c) order, matching the
// [K_h, K_w, C_in, C_out] kernel layout. Out-of-bounds positions are the
// zero padding.
func im2col(colBuf, inputData []float32, N, H, W, C, KH, KW, HOut, WOut, stride, padding int) {
	colWidth := KH * KW * C
	colIdx := 0

	for n := 0; n < N; n++ {
		for outH := 0; outH < HOut; outH++ {
			for outW := 0; outW < WOut; outW++ {
				hStart := outH*stride - padding
				wStart := outW*stride - padding
				bufIdx := colIdx * colWidth

				for kh := 0; kh < KH; kh++ {
					h := hStart + kh
					for kw := 0; kw < KW; kw++ {
						w := wStart + kw
						if h >= 0 && h < H && w >= 0 && w < W {
							inputIdx := ((n*H+h)*W + w) * C
							copy(colBuf[bufIdx:bufIdx+C], inputData[inputIdx:inputIdx+C])
						}
						// Else: leave zeros (padding).
						bufIdx += C
					}
				}

				colIdx++
			}
		}
	}
}
