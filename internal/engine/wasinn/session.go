// Package wasinn runs the classifier through the wasi-nn host API, for
// binaries built with GOOS=wasip1 GOARCH=wasm and executed by a runtime that
// provides the wasi_ephemeral_nn module (WasmEdge, wasmtime).
package wasinn

import (
	"fmt"

	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/rs/zerolog/log"
)

type Engine struct {
	host     Host
	encoding GraphEncoding
	target   ExecutionTarget
	// outputLen is the number of float32 values reserved for the output.
	outputLen int
}

// New returns a TFLite-on-CPU engine whose output buffer holds outputLen
// values.
func New(outputLen int) *Engine {
	return NewWithHost(defaultHost(), outputLen)
}

func NewWithHost(host Host, outputLen int) *Engine {
	return &Engine{
		host:      host,
		encoding:  EncodingTensorflowLite,
		target:    TargetCPU,
		outputLen: outputLen,
	}
}

func (e *Engine) Name() string {
	return "wasi-nn"
}

type Session struct {
	host      Host
	graph     uint32
	ctx       uint32
	outputLen int
}

func (e *Engine) Build(modelData []byte) (engine.Session, error) {
	graph, err := e.host.Load([][]byte{modelData}, e.encoding, e.target)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build model from bytes: %v", model.ErrModelLoad, err)
	}

	ctx, err := e.host.InitExecutionContext(graph)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init execution context: %v", model.ErrSessionBuild, err)
	}

	log.Debug().Uint32("graph", graph).Uint32("context", ctx).Msg("wasi-nn context ready")

	return &Session{host: e.host, graph: graph, ctx: ctx, outputLen: e.outputLen}, nil
}

func (s *Session) SetInput(t model.Tensor) error {
	if len(t.Data) != t.Len() {
		return fmt.Errorf("%w: %d values for shape %v", model.ErrTensorWrite, len(t.Data), t.Shape())
	}

	shape := t.Shape()
	dims := make([]uint32, len(shape))
	for i, d := range shape {
		dims[i] = uint32(d)
	}

	err := s.host.SetInput(s.ctx, 0, HostTensor{
		Dims: dims,
		Type: TensorF32,
		Data: float32sToBytes(t.Data),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to set input to the context: %v", model.ErrTensorWrite, err)
	}
	return nil
}

func (s *Session) Run() error {
	if err := s.host.Compute(s.ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInferenceExecution, err)
	}
	return nil
}

// Output reads at most outputLen values and trims to what the host wrote.
func (s *Session) Output() ([]float32, error) {
	if s.outputLen <= 0 {
		return nil, fmt.Errorf("%w: no output buffer reserved", model.ErrBufferAllocation)
	}

	buf := make([]byte, 4*s.outputLen)
	written, err := s.host.GetOutput(s.ctx, 0, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to receive output: %v", model.ErrOutputRead, err)
	}
	if int(written) > len(buf) {
		return nil, fmt.Errorf("%w: host wrote %d bytes into a %d byte buffer", model.ErrOutputRead, written, len(buf))
	}
	return bytesToFloat32s(buf[:written]), nil
}

// Close is a no-op: wasi_ephemeral_nn has no call to release a graph or
// context, so they live until the instance exits.
func (s *Session) Close() error {
	return nil
}
