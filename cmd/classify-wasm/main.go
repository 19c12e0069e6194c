// Command classify-wasm is the sandboxed build of classify. Build it with
//
//	GOOS=wasip1 GOARCH=wasm go build ./cmd/classify-wasm
//
// and run it under a WebAssembly runtime that exposes wasi-nn with a
// TensorFlow Lite backend, with the working directory mapped in.
package main

import (
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/cli"
	"github.com/Brownie44l1/densenet-classify/internal/config"
	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/engine/wasinn"
	"github.com/Brownie44l1/densenet-classify/internal/model"
)

func main() {
	os.Exit(cli.Main(cli.Variant{
		Use:    "classify-wasm",
		Short:  "Classify sample.png with densenet201.tflite through wasi-nn",
		Config: config.Sandboxed,
		Engine: func(*config.Config) engine.Engine {
			return wasinn.New(len(model.Labels))
		},
	}))
}
