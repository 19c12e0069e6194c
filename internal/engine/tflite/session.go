// Package tflite runs the classifier on the native TensorFlow Lite C runtime
// with the builtin op resolver on the CPU.
package tflite

import (
	"fmt"

	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/mattn/go-tflite"
	"github.com/rs/zerolog/log"
)

type Engine struct {
	// Threads is passed to the interpreter; zero means one.
	Threads int
}

func New() *Engine {
	return &Engine{Threads: 1}
}

func (e *Engine) Name() string {
	return "tflite"
}

type Session struct {
	modelData   []byte
	tfModel     *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	input       *tflite.Tensor
	output      *tflite.Tensor
}

func (e *Engine) Build(modelData []byte) (engine.Session, error) {
	tfModel := tflite.NewModel(modelData)
	if tfModel == nil {
		return nil, fmt.Errorf("%w: flatbuffer rejected", model.ErrModelLoad)
	}

	threads := e.Threads
	if threads <= 0 {
		threads = 1
	}
	options := tflite.NewInterpreterOptions()
	options.SetNumThread(threads)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.Debug().Str("engine", "tflite").Msg(msg)
	}, nil)

	s := &Session{modelData: modelData, tfModel: tfModel, options: options}

	s.interpreter = tflite.NewInterpreter(tfModel, options)
	if s.interpreter == nil {
		s.Close()
		return nil, fmt.Errorf("%w: cannot create interpreter", model.ErrSessionBuild)
	}

	if status := s.interpreter.AllocateTensors(); status != tflite.OK {
		s.Close()
		return nil, fmt.Errorf("%w: status %d", model.ErrBufferAllocation, status)
	}

	if in, out := s.interpreter.GetInputTensorCount(), s.interpreter.GetOutputTensorCount(); in != 1 || out != 1 {
		s.Close()
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", model.ErrUnsupportedModel, in, out)
	}

	s.input = s.interpreter.GetInputTensor(0)
	s.output = s.interpreter.GetOutputTensor(0)
	if s.input.Type() != tflite.Float32 || s.output.Type() != tflite.Float32 {
		s.Close()
		return nil, fmt.Errorf("%w: input %v, output %v", model.ErrUnsupportedModel, s.input.Type(), s.output.Type())
	}

	log.Debug().
		Ints("input_shape", shape(s.input)).
		Ints("output_shape", shape(s.output)).
		Msg("tflite interpreter ready")

	return s, nil
}

func (s *Session) SetInput(t model.Tensor) error {
	want := int(s.input.ByteSize()) / 4
	if len(t.Data) != want {
		return fmt.Errorf("%w: have %d values, input takes %d", model.ErrTensorWrite, len(t.Data), want)
	}
	if status := s.input.CopyFromBuffer(t.Data); status != tflite.OK {
		return fmt.Errorf("%w: status %d", model.ErrTensorWrite, status)
	}
	return nil
}

func (s *Session) Run() error {
	if status := s.interpreter.Invoke(); status != tflite.OK {
		return fmt.Errorf("%w: status %d", model.ErrInferenceExecution, status)
	}
	return nil
}

// Output copies the output tensor out of interpreter-owned memory.
func (s *Session) Output() ([]float32, error) {
	out := make([]float32, int(s.output.ByteSize())/4)
	if len(out) == 0 {
		return out, nil
	}
	if status := s.output.CopyToBuffer(out); status != tflite.OK {
		return nil, fmt.Errorf("%w: status %d", model.ErrOutputRead, status)
	}
	return out, nil
}

func (s *Session) Close() error {
	if s.interpreter != nil {
		s.interpreter.Delete()
		s.interpreter = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.tfModel != nil {
		s.tfModel.Delete()
		s.tfModel = nil
	}
	s.modelData = nil
	return nil
}

func shape(t *tflite.Tensor) []int {
	dims := make([]int, t.NumDims())
	for i := range dims {
		dims[i] = t.Dim(i)
	}
	return dims
}
