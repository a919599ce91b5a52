// Package main provides the Mirage CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mirage-ml/mirage/backend/cpu"
	"github.com/mirage-ml/mirage/backend/webgpu"
	"github.com/mirage-ml/mirage/tensor"
	"github.com/mirage-ml/mirage/vae"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Mirage %s\n", version)
			return
		case "selfcheck":
			selfcheck()
			return
		}
	}

	fmt.Println("Mirage - latent diffusion VAE for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  selfcheck   Run an encode/decode shape round trip")
}

// selfcheck pushes a blank image through the full encoder/decoder pair
// with random weights and reports the shapes at each stage.
func selfcheck() {
	backend := cpu.New()
	fmt.Printf("Backend: %s\n", backend.Name())
	fmt.Printf("WebGPU available: %v\n", webgpu.IsAvailable())

	image := tensor.Zeros[float32](tensor.Shape{1, 64, 64, 3}, backend)
	fmt.Printf("Image:  %v\n", image.Shape())

	encoder := vae.NewEncoder(backend)
	latent := encoder.Forward(image)
	fmt.Printf("Latent: %v\n", latent.Shape())

	decoder := vae.NewDecoder(backend)
	restored := decoder.Forward(latent)
	fmt.Printf("Output: %v\n", restored.Shape())

	if !restored.Shape().Equal(image.Shape()) {
		fmt.Println("selfcheck: FAIL - round trip shape mismatch")
		os.Exit(1)
	}
	fmt.Println("selfcheck: OK")
}
