// Package engine defines the capability surface the classifier needs from an
// inference runtime. Concrete runtimes live in subpackages and are picked per
// binary at build time.
package engine

import "github.com/Brownie44l1/densenet-classify/internal/model"

// Engine turns serialized model bytes into a ready-to-run Session.
type Engine interface {
	Name() string
	Build(modelData []byte) (Session, error)
}

// Session is a single-input, single-output inference context. Errors wrap
// the model.Err* sentinel of the failing step.
type Session interface {
	SetInput(t model.Tensor) error
	Run() error
	Output() ([]float32, error)
	Close() error
}
