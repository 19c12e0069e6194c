package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Brownie44l1/densenet-classify/internal/model"
)

// Reporter writes the run transcript: a Starting line, one pretty-printed
// JSON payload and an Exiting line.
type Reporter struct {
	out io.Writer
	now func() time.Time
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out, now: time.Now}
}

func (r *Reporter) Start() error {
	_, err := fmt.Fprintf(r.out, "Starting %v\n", r.now())
	return err
}

// Finish prints p and the Exiting line. If p cannot be encoded an error
// payload is printed in its place and model.ErrPayloadEncode is returned once the
// Exiting line is out.
func (r *Reporter) Finish(p model.Payload) error {
	doc, encErr := encode(p)
	if encErr != nil {
		encErr = fmt.Errorf("%w: %v", model.ErrPayloadEncode, encErr)
		if doc, err := encode(model.NewFailure(encErr)); err == nil {
			return errors.Join(encErr, r.write(doc))
		}
		return encErr
	}
	return r.write(doc)
}

func (r *Reporter) write(doc []byte) error {
	if _, err := r.out.Write(doc); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "Exiting %v\n", r.now())
	return err
}

func encode(p model.Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
