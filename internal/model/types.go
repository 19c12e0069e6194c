package model

// Tensor is a flat float32 buffer laid out row-major with interleaved
// channels, shaped (1, Height, Width, Channels).
type Tensor struct {
	Data     []float32
	Height   int
	Width    int
	Channels int
}

// Shape returns the NHWC shape the engines bind the tensor to.
func (t Tensor) Shape() []int64 {
	return []int64{1, int64(t.Height), int64(t.Width), int64(t.Channels)}
}

func (t Tensor) Len() int {
	return t.Height * t.Width * t.Channels
}

type ClassificationResult struct {
	Index       uint32
	Probability float32
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Payload is the single document printed per run. Exactly one of
// SuccessPayload or ErrorPayload is populated through the constructors.
type Payload interface {
	Status() string
}

type SuccessPayload struct {
	GuessIndex        uint32  `json:"guess_index"`
	Probability       float32 `json:"probability"`
	RecognitionResult string  `json:"recognition_result"`
	State             string  `json:"status"`
}

func (p SuccessPayload) Status() string { return p.State }

type ErrorPayload struct {
	Reason string `json:"reason"`
	State  string `json:"status"`
}

func (p ErrorPayload) Status() string { return p.State }

func NewSuccess(res ClassificationResult, label string) SuccessPayload {
	return SuccessPayload{
		GuessIndex:        res.Index,
		Probability:       res.Probability,
		RecognitionResult: label,
		State:             StatusSuccess,
	}
}

// NewFailure converts a pipeline error into the error payload using the
// fixed reason string of its category.
func NewFailure(err error) ErrorPayload {
	return ErrorPayload{
		Reason: Reason(err),
		State:  StatusError,
	}
}
