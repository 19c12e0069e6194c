//go:build wasip1

package wasinn

import (
	"runtime"
	"unsafe"
)

//go:wasmimport wasi_ephemeral_nn load
func nnLoad(builders unsafe.Pointer, buildersLen, encoding, target uint32, graph unsafe.Pointer) uint32

//go:wasmimport wasi_ephemeral_nn init_execution_context
func nnInitExecutionContext(graph uint32, ctx unsafe.Pointer) uint32

//go:wasmimport wasi_ephemeral_nn set_input
func nnSetInput(ctx, index uint32, tensor unsafe.Pointer) uint32

//go:wasmimport wasi_ephemeral_nn compute
func nnCompute(ctx uint32) uint32

//go:wasmimport wasi_ephemeral_nn get_output
func nnGetOutput(ctx, index uint32, out unsafe.Pointer, outLen uint32, written unsafe.Pointer) uint32

func defaultHost() Host {
	return importHost{}
}

type importHost struct{}

func (importHost) Load(builders [][]byte, encoding GraphEncoding, target ExecutionTarget) (uint32, error) {
	descs := make([]sliceDesc, len(builders))
	for i, b := range builders {
		descs[i] = describe(b)
	}

	var graph uint32
	code := nnLoad(unsafe.Pointer(unsafe.SliceData(descs)), uint32(len(descs)),
		uint32(encoding), uint32(target), unsafe.Pointer(&graph))
	runtime.KeepAlive(builders)
	runtime.KeepAlive(descs)
	return graph, errnoErr(code)
}

func (importHost) InitExecutionContext(graph uint32) (uint32, error) {
	var ctx uint32
	code := nnInitExecutionContext(graph, unsafe.Pointer(&ctx))
	return ctx, errnoErr(code)
}

func (importHost) SetInput(ctx, index uint32, t HostTensor) error {
	desc := tensorDesc{
		dims: sliceDesc{ptr: address(unsafe.Pointer(unsafe.SliceData(t.Dims))), len: uint32(len(t.Dims))},
		typ:  t.Type,
		data: describe(t.Data),
	}
	code := nnSetInput(ctx, index, unsafe.Pointer(&desc))
	runtime.KeepAlive(t.Dims)
	runtime.KeepAlive(t.Data)
	return errnoErr(code)
}

func (importHost) Compute(ctx uint32) error {
	return errnoErr(nnCompute(ctx))
}

func (importHost) GetOutput(ctx, index uint32, out []byte) (uint32, error) {
	var written uint32
	code := nnGetOutput(ctx, index, unsafe.Pointer(unsafe.SliceData(out)), uint32(len(out)), unsafe.Pointer(&written))
	runtime.KeepAlive(out)
	return written, errnoErr(code)
}

func describe(b []byte) sliceDesc {
	return sliceDesc{ptr: address(unsafe.Pointer(unsafe.SliceData(b))), len: uint32(len(b))}
}

// address narrows a Go pointer to its wasm32 linear memory offset.
func address(p unsafe.Pointer) uint32 {
	return uint32(uintptr(p))
}
