package config

import (
	"errors"
	"fmt"

	"github.com/Brownie44l1/densenet-classify/internal/preprocess"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
)

const (
	ConfigDelimiter string = "."

	ModelPath   string = "model_path"
	ImagePath   string = "image_path"
	ImageWidth  string = "image_width"
	ImageHeight string = "image_height"
	ResizeMode  string = "resize_mode"
	LogLevel    string = "log_level"
	ExitOnError string = "exit_on_error"

	ImageDimension int = 224
)

type Config struct {
	ModelPath   string `koanf:"model_path"`
	ImagePath   string `koanf:"image_path"`
	ImageWidth  int    `koanf:"image_width"`
	ImageHeight int    `koanf:"image_height"`
	ResizeMode  string `koanf:"resize_mode"`
	LogLevel    string `koanf:"log_level"`
	ExitOnError bool   `koanf:"exit_on_error"`
}

var common = map[string]interface{}{
	ImagePath:   "sample.png",
	ImageWidth:  ImageDimension,
	ImageHeight: ImageDimension,
	LogLevel:    "warn",
	ExitOnError: true,
}

// Native is the TFLite program: aspect-preserving resize.
func Native() (*Config, error) {
	return load(map[string]interface{}{
		ModelPath:  "densenet201.tflite",
		ResizeMode: string(preprocess.Fit),
	})
}

// Sandboxed is the wasi-nn program: exact resize.
func Sandboxed() (*Config, error) {
	return load(map[string]interface{}{
		ModelPath:  "densenet201.tflite",
		ResizeMode: string(preprocess.Exact),
	})
}

// ONNX is the ONNX Runtime program: exact resize.
func ONNX() (*Config, error) {
	return load(map[string]interface{}{
		ModelPath:  "densenet201.onnx",
		ResizeMode: string(preprocess.Exact),
	})
}

func load(variant map[string]interface{}) (*Config, error) {
	k := koanf.New(ConfigDelimiter)

	// common defaults first, variant values override
	if err := k.Load(confmap.Provider(common, ConfigDelimiter), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	if err := k.Load(confmap.Provider(variant, ConfigDelimiter), nil); err != nil {
		return nil, fmt.Errorf("failed to load variant config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("model path is empty")
	}
	if c.ImagePath == "" {
		return errors.New("image path is empty")
	}
	return c.Preprocess().Validate()
}

func (c *Config) Preprocess() preprocess.Options {
	return preprocess.Options{
		Width:  c.ImageWidth,
		Height: c.ImageHeight,
		Mode:   preprocess.Mode(c.ResizeMode),
	}
}
