package wasinn

import (
	"encoding/binary"
	"fmt"
	"math"
)

// GraphEncoding mirrors the wasi-nn graph_encoding enum.
type GraphEncoding uint32

const (
	EncodingOpenVINO GraphEncoding = iota
	EncodingONNX
	EncodingTensorflow
	EncodingPyTorch
	EncodingTensorflowLite
)

// ExecutionTarget mirrors the wasi-nn execution_target enum.
type ExecutionTarget uint32

const (
	TargetCPU ExecutionTarget = iota
	TargetGPU
	TargetTPU
)

// TensorType mirrors the wasi-nn tensor_type enum.
type TensorType uint8

const (
	TensorF16 TensorType = iota
	TensorF32
	TensorU8
	TensorI32
)

// Errno is a non-zero wasi-nn result code.
type Errno uint32

const (
	ErrnoSuccess Errno = iota
	ErrnoInvalidArgument
	ErrnoInvalidEncoding
	ErrnoMissingMemory
	ErrnoBusy
	ErrnoRuntimeError
	ErrnoUnsupportedOperation
	ErrnoTooLarge
	ErrnoNotFound
)

var errnoNames = map[Errno]string{
	ErrnoInvalidArgument:      "invalid argument",
	ErrnoInvalidEncoding:      "invalid encoding",
	ErrnoMissingMemory:        "missing memory",
	ErrnoBusy:                 "busy",
	ErrnoRuntimeError:         "runtime error",
	ErrnoUnsupportedOperation: "unsupported operation",
	ErrnoTooLarge:             "too large",
	ErrnoNotFound:             "not found",
}

func (e Errno) Error() string {
	if name, ok := errnoNames[e]; ok {
		return "wasi-nn: " + name
	}
	return fmt.Sprintf("wasi-nn: errno %d", uint32(e))
}

func errnoErr(code uint32) error {
	if Errno(code) == ErrnoSuccess {
		return nil
	}
	return Errno(code)
}

// Host is the wasi_ephemeral_nn import surface, expressed over Go values.
type Host interface {
	Load(builders [][]byte, encoding GraphEncoding, target ExecutionTarget) (uint32, error)
	InitExecutionContext(graph uint32) (uint32, error)
	SetInput(ctx, index uint32, t HostTensor) error
	Compute(ctx uint32) error
	GetOutput(ctx, index uint32, out []byte) (uint32, error)
}

type HostTensor struct {
	Dims []uint32
	Type TensorType
	Data []byte
}

// sliceDesc is a (pointer, length) pair in wasm32 linear memory.
type sliceDesc struct {
	ptr uint32
	len uint32
}

// tensorDesc is the wasm32 layout of a wasi-nn tensor record.
type tensorDesc struct {
	dims sliceDesc
	typ  TensorType
	_    [3]byte
	data sliceDesc
}

func float32sToBytes(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32s(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}
