//go:build !wasip1

package wasinn

import "errors"

var errNoHost = errors.New("wasi-nn host functions require GOOS=wasip1")

func defaultHost() Host {
	return unavailableHost{}
}

type unavailableHost struct{}

func (unavailableHost) Load([][]byte, GraphEncoding, ExecutionTarget) (uint32, error) {
	return 0, errNoHost
}

func (unavailableHost) InitExecutionContext(uint32) (uint32, error) {
	return 0, errNoHost
}

func (unavailableHost) SetInput(uint32, uint32, HostTensor) error {
	return errNoHost
}

func (unavailableHost) Compute(uint32) error {
	return errNoHost
}

func (unavailableHost) GetOutput(uint32, uint32, []byte) (uint32, error) {
	return 0, errNoHost
}
