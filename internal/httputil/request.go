package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBodyBytes bounds JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// BodyError is a request body that could not be read. Status is 413 when the
// body ran past its limit and 400 otherwise.
type BodyError struct {
	Status int
	Msg    string
	Err    error
}

func (e *BodyError) Error() string { return e.Msg }
func (e *BodyError) Unwrap() error { return e.Err }

func bodyError(what string, err error) *BodyError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &BodyError{
			Status: http.StatusRequestEntityTooLarge,
			Msg:    fmt.Sprintf("%s exceeds %d bytes", what, tooLarge.Limit),
			Err:    err,
		}
	}
	return &BodyError{Status: http.StatusBadRequest, Msg: fmt.Sprintf("invalid %s: %v", what, err), Err: err}
}

// ParseJSON decodes a single JSON object from the request body into dest.
// Unknown fields are rejected so typos in PATCH bodies do not silently no-op.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return &BodyError{Status: http.StatusBadRequest, Msg: "request body is required", Err: err}
		}
		return bodyError("request body", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &BodyError{Status: http.StatusBadRequest, Msg: "request body must hold a single JSON object", Err: err}
	}
	return nil
}

// ParseMultipart reads a multipart form of at most limit bytes. Up to memory
// bytes of file parts stay in RAM; the rest spill to temporary files, which
// the caller removes with r.MultipartForm.RemoveAll.
func ParseMultipart(w http.ResponseWriter, r *http.Request, limit, memory int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(memory); err != nil {
		return bodyError("multipart body", err)
	}
	return nil
}
