package model

import "errors"

var (
	ErrModelLoad          = errors.New("model load failed")
	ErrSessionBuild       = errors.New("session build failed")
	ErrBufferAllocation   = errors.New("buffer allocation failed")
	ErrImageLoad          = errors.New("image load failed")
	ErrTensorWrite        = errors.New("tensor write failed")
	ErrInferenceExecution = errors.New("inference execution failed")
	ErrOutputRead         = errors.New("output read failed")

	ErrEmptyOutput      = errors.New("output vector is empty")
	ErrIndexOutOfRange  = errors.New("class index out of range")
	ErrUnsupportedModel = errors.New("unsupported model signature")
	ErrNonFiniteOutput  = errors.New("winning probability is not finite")
	ErrPayloadEncode    = errors.New("failed to encode payload")
	ErrConfig           = errors.New("invalid configuration")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrModelLoad, "Failed to load model"},
	{ErrSessionBuild, "Failed to build new interpreter model"},
	{ErrBufferAllocation, "Failed to allocate tensors"},
	{ErrImageLoad, "Failed to open image"},
	{ErrTensorWrite, "Failed to set input tensor"},
	{ErrInferenceExecution, "Failed to inference the model"},
	{ErrOutputRead, "Failed to receive output"},
	{ErrEmptyOutput, "Model produced an empty output"},
	{ErrIndexOutOfRange, "Class index out of range"},
	{ErrUnsupportedModel, "Model must declare exactly one float32 input and output"},
	{ErrNonFiniteOutput, "Model produced a non-finite probability"},
	{ErrPayloadEncode, "Failed to encode result"},
	{ErrConfig, "Invalid configuration"},
}

// Reason returns the fixed human-readable reason for err. The underlying
// cause is never exposed.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "Unexpected failure"
}
