package main

import (
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/cli"
	"github.com/Brownie44l1/densenet-classify/internal/config"
	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/engine/onnx"
)

func main() {
	os.Exit(cli.Main(cli.Variant{
		Use:    "classify-onnx",
		Short:  "Classify sample.png with densenet201.onnx on ONNX Runtime",
		Config: config.ONNX,
		Engine: func(*config.Config) engine.Engine {
			return onnx.New("")
		},
	}))
}
