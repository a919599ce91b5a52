// Copyright 2025 Mirage ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/internal/tensor"
	"github.com/mirage-ml/mirage/nn"
)

// TestModuleInterface verifies that concrete layer types implement the
// Module interface through the public facade.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		module nn.Module[*cpu.CPUBackend]
		input  tensor.Shape
	}{
		{
			name:   "Conv2D",
			module: nn.NewConv2D(3, 8, 3, 1, 1, backend),
			input:  tensor.Shape{1, 8, 8, 3},
		},
		{
			name:   "GroupNorm",
			module: nn.NewGroupNorm(1, 3, backend),
			input:  tensor.Shape{1, 8, 8, 3},
		},
		{
			name:   "SiLU",
			module: nn.NewSiLU[*cpu.CPUBackend](),
			input:  tensor.Shape{1, 8, 8, 3},
		},
		{
			name:   "Upsample2D",
			module: nn.NewUpsample2D[*cpu.CPUBackend](2),
			input:  tensor.Shape{1, 8, 8, 3},
		},
		{
			name: "Sequential",
			module: nn.NewSequential[*cpu.CPUBackend](
				nn.NewConv2D(3, 8, 3, 1, 1, backend),
				nn.NewSiLU[*cpu.CPUBackend](),
			),
			input: tensor.Shape{1, 8, 8, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn[float32](tt.input, backend)
			output := tt.module.Forward(input)
			if output == nil {
				t.Fatal("Forward() returned nil")
			}

			// Parameters and StateDict must agree: two raw tensors per
			// parameterized layer, none for activations.
			params := tt.module.Parameters()
			stateDict := tt.module.StateDict()
			if len(stateDict) != len(params) {
				t.Errorf("StateDict has %d entries, Parameters has %d", len(stateDict), len(params))
			}
		})
	}
}
