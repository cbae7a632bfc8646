// Package onnx runs an image backbone through ONNX Runtime to produce embeddings.
package onnx

import (
	"errors"
	"fmt"
	"math"
)

// Config describes the exported model.
type Config struct {
	ModelPath   string
	LibraryPath string // onnxruntime shared library; empty uses the platform default
	InputName   string
	OutputName  string
	ImageSize   int
	Dimensions  int
	ModelID     string // cache and metrics identity; defaults to the model file name
}

func (c Config) validate() error {
	if c.ModelPath == "" {
		return errors.New("onnx: model path is required")
	}
	if c.InputName == "" || c.OutputName == "" {
		return errors.New("onnx: input and output names are required")
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("onnx: image size must be positive, got %d", c.ImageSize)
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("onnx: dimensions must be positive, got %d", c.Dimensions)
	}
	return nil
}

// normalizeL2 scales x in place to unit L2 norm. A zero vector stays zero.
func normalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= norm
	}
}
