package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/config"
	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/logger"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/Brownie44l1/densenet-classify/internal/pipeline"
	"github.com/Brownie44l1/densenet-classify/internal/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrClassificationFailed is returned after an error payload has been
// printed, so the caller only has to pick the exit status.
var ErrClassificationFailed = errors.New("classification failed")

// Variant binds one binary to its configuration and inference engine.
type Variant struct {
	Use    string
	Short  string
	Config func() (*config.Config, error)
	Engine func(cfg *config.Config) engine.Engine
}

func NewCommand(v Variant, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           v.Use,
		Short:         v.Short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, report.New(stdout))
		},
	}
}

func run(v Variant, r *report.Reporter) error {
	if err := r.Start(); err != nil {
		return err
	}

	cfg, err := setup(v)
	if err != nil {
		return errors.Join(err, r.Finish(model.NewFailure(err)))
	}

	payload := classify(v.Engine(cfg), cfg)

	if err := r.Finish(payload); err != nil {
		return err
	}
	if payload.Status() == model.StatusError && cfg.ExitOnError {
		return ErrClassificationFailed
	}
	return nil
}

func setup(v Variant) (*config.Config, error) {
	cfg, err := v.Config()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfig, err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfig, err)
	}
	return cfg, nil
}

func classify(eng engine.Engine, cfg *config.Config) model.Payload {
	if closer, ok := eng.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Str("engine", eng.Name()).Msg("failed to shut down engine")
			}
		}()
	}

	log.Debug().
		Str("engine", eng.Name()).
		Str("model", cfg.ModelPath).
		Str("image", cfg.ImagePath).
		Msg("classifying")

	return pipeline.New(eng, model.Labels, cfg.Preprocess()).Run(cfg.ModelPath, cfg.ImagePath)
}

// Main runs the variant against the process streams and returns the exit
// status.
func Main(v Variant) int {
	if err := NewCommand(v, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, ErrClassificationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
