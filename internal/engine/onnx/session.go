// Package onnx runs the classifier on ONNX Runtime.
package onnx

import (
	"fmt"

	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

type Engine struct {
	// SharedLibraryPath points at the onnxruntime shared library. Empty
	// keeps the binding's platform default.
	SharedLibraryPath string
}

func New(sharedLibraryPath string) *Engine {
	return &Engine{SharedLibraryPath: sharedLibraryPath}
}

func (e *Engine) Name() string {
	return "onnxruntime"
}

// Close tears down the process-wide ONNX Runtime environment. Sessions built
// by e must be closed first.
func (e *Engine) Close() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

type Session struct {
	session      *ort.DynamicAdvancedSession
	inputInfo    ort.InputOutputInfo
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func (e *Engine) Build(modelData []byte) (engine.Session, error) {
	if !ort.IsInitialized() {
		if e.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(e.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: failed to initialize ONNX environment: %v", model.ErrSessionBuild, err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(modelData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrModelLoad, err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", model.ErrUnsupportedModel, len(inputs), len(outputs))
	}
	if inputs[0].DataType != ort.TensorElementDataTypeFloat || outputs[0].DataType != ort.TensorElementDataTypeFloat {
		return nil, fmt.Errorf("%w: input %v, output %v", model.ErrUnsupportedModel, inputs[0].DataType, outputs[0].DataType)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](concrete(outputs[0].Dimensions))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create output tensor: %v", model.ErrBufferAllocation, err)
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(modelData,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		outputTensor.Destroy()
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", model.ErrSessionBuild, err)
	}

	log.Debug().
		Str("input", inputs[0].String()).
		Str("output", outputs[0].String()).
		Msg("onnx session ready")

	return &Session{
		session:      session,
		inputInfo:    inputs[0],
		outputTensor: outputTensor,
	}, nil
}

func (s *Session) SetInput(t model.Tensor) error {
	shape := ort.NewShape(t.Shape()...)
	if !compatible(s.inputInfo.Dimensions, shape) {
		return fmt.Errorf("%w: tensor shape %v, model input %v", model.ErrTensorWrite, shape, s.inputInfo.Dimensions)
	}

	inputTensor, err := ort.NewTensor(shape, t.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrTensorWrite, err)
	}
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	s.inputTensor = inputTensor
	return nil
}

func (s *Session) Run() error {
	if s.inputTensor == nil {
		return fmt.Errorf("%w: input not set", model.ErrInferenceExecution)
	}
	err := s.session.Run([]ort.Value{s.inputTensor}, []ort.Value{s.outputTensor})
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInferenceExecution, err)
	}
	return nil
}

func (s *Session) Output() ([]float32, error) {
	data := s.outputTensor.GetData()
	out := make([]float32, len(data))
	copy(out, data)
	return out, nil
}

func (s *Session) Close() error {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
		s.inputTensor = nil
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
		s.outputTensor = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	return nil
}

// concrete replaces symbolic dimensions with 1, which is the batch size of
// a single-image run.
func concrete(dims ort.Shape) ort.Shape {
	out := make(ort.Shape, len(dims))
	for i, d := range dims {
		if d < 1 {
			d = 1
		}
		out[i] = d
	}
	return out
}

func compatible(declared, actual ort.Shape) bool {
	if len(declared) != len(actual) {
		return false
	}
	for i, d := range declared {
		if d > 0 && d != actual[i] {
			return false
		}
	}
	return true
}
