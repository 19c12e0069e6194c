package pipeline

import (
	"fmt"
	"math"
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/Brownie44l1/densenet-classify/internal/preprocess"
	"github.com/rs/zerolog/log"
)

type Classifier struct {
	engine engine.Engine
	labels []string
	opts   preprocess.Options
}

func New(eng engine.Engine, labels []string, opts preprocess.Options) *Classifier {
	return &Classifier{
		engine: eng,
		labels: labels,
		opts:   opts,
	}
}

// LoadModel reads the serialized model at path.
func LoadModel(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrModelLoad, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("loaded model")
	return data, nil
}

// Classify runs one image through the model and resolves the winning label.
// The session is released before returning on every path.
func (c *Classifier) Classify(modelPath, imagePath string) (model.SuccessPayload, error) {
	modelData, err := LoadModel(modelPath)
	if err != nil {
		return model.SuccessPayload{}, err
	}

	session, err := c.engine.Build(modelData)
	if err != nil {
		return model.SuccessPayload{}, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Str("engine", c.engine.Name()).Msg("failed to release session")
		}
	}()

	tensor, err := preprocess.LoadTensor(imagePath, c.opts)
	if err != nil {
		return model.SuccessPayload{}, err
	}

	if err := session.SetInput(tensor); err != nil {
		return model.SuccessPayload{}, err
	}
	if err := session.Run(); err != nil {
		return model.SuccessPayload{}, err
	}

	output, err := session.Output()
	if err != nil {
		return model.SuccessPayload{}, err
	}
	log.Debug().Str("engine", c.engine.Name()).Int("classes", len(output)).Msg("inference finished")

	result, err := model.Argmax(output)
	if err != nil {
		return model.SuccessPayload{}, err
	}

	// JSON has no encoding for Inf or NaN.
	if p := float64(result.Probability); math.IsInf(p, 0) || math.IsNaN(p) {
		return model.SuccessPayload{}, fmt.Errorf("%w: index %d is %v", model.ErrNonFiniteOutput, result.Index, p)
	}

	label, err := model.Resolve(c.labels, result.Index)
	if err != nil {
		return model.SuccessPayload{}, err
	}

	log.Debug().
		Uint32("index", result.Index).
		Float32("probability", result.Probability).
		Str("label", label).
		Msg("classified image")

	return model.NewSuccess(result, label), nil
}

// Run is Classify with failures folded into the error payload.
func (c *Classifier) Run(modelPath, imagePath string) model.Payload {
	payload, err := c.Classify(modelPath, imagePath)
	if err != nil {
		log.Error().Err(err).Str("engine", c.engine.Name()).Msg("classification failed")
		return model.NewFailure(err)
	}
	return payload
}
