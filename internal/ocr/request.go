package ocr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMalformedRequest is the one fatal, caller-visible input error: the
// payload is not a request envelope at all. Everything downstream of a
// successful decode is recovered component-locally.
var ErrMalformedRequest = errors.New("malformed request payload")

// DecodeRequest reads and validates one request envelope. Unknown fields
// are rejected so typos in the caller's contract surface immediately.
func DecodeRequest(r io.Reader) (Request, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks the envelope carries something to analyze.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" && len(r.Blocks) == 0 {
		return fmt.Errorf("%w: neither text nor blocks present", ErrMalformedRequest)
	}
	if len(r.RequestedModes) == 0 {
		return fmt.Errorf("%w: requested_modes is empty", ErrMalformedRequest)
	}
	if r.ContractDate != "" {
		if _, err := time.Parse("2006-01-02", r.ContractDate); err != nil {
			return fmt.Errorf("%w: contract_date %q is not an ISO date", ErrMalformedRequest, r.ContractDate)
		}
	}
	return nil
}
