// Command classify labels sample.png with DenseNet-201 on the native
// TensorFlow Lite runtime.
package main

import (
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/cli"
	"github.com/Brownie44l1/densenet-classify/internal/config"
	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/engine/tflite"
)

func main() {
	os.Exit(cli.Main(cli.Variant{
		Use:    "classify",
		Short:  "Classify sample.png with densenet201.tflite",
		Config: config.Native,
		Engine: func(*config.Config) engine.Engine {
			return tflite.New()
		},
	}))
}
