//go:build cgo

package onnx

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/kailas-cloud/dogreid/internal/imageprep"
)

var envOnce sync.Once

func initEnvironment(libraryPath string) error {
	var err error
	envOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if !ort.IsInitialized() {
			err = ort.InitializeEnvironment()
		}
	})
	if err != nil {
		return fmt.Errorf("initialize onnx runtime: %w", err)
	}
	return nil
}

// Embedder implements domain.ImageEmbedder over a single ONNX session.
// The session and its tensors are preallocated; Run is serialised by mu.
type Embedder struct {
	cfg     Config
	modelID string

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// New loads the model and allocates the input/output tensors.
func New(cfg Config) (*Embedder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, err
	}

	size := int64(cfg.ImageSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Dimensions)))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = filepath.Base(cfg.ModelPath)
	}

	return &Embedder{
		cfg:     cfg,
		modelID: modelID,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Embed decodes the image and returns its L2-normalised embedding.
func (e *Embedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	img, _, err := imageprep.Decode(image)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, fmt.Errorf("onnx embedder is closed")
	}
	if err := imageprep.Tensor(img, e.cfg.ImageSize, e.input.GetData()); err != nil {
		return nil, fmt.Errorf("prepare tensor: %w", err)
	}
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	vec := make([]float32, e.cfg.Dimensions)
	copy(vec, e.output.GetData())
	normalizeL2(vec)
	return vec, nil
}

// ModelID identifies the loaded model.
func (e *Embedder) ModelID() string { return e.modelID }

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int { return e.cfg.Dimensions }

// Close destroys the session and tensors.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	if e.input != nil {
		_ = e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	if err != nil {
		return fmt.Errorf("destroy onnx session: %w", err)
	}
	return nil
}
