package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/requestcontext"
)

// Normalizable requests trim and canonicalize their fields before validation.
type Normalizable interface {
	Normalize()
}

type Validatable interface {
	Validate() error
}

// Bind reads the JSON body of r into a new T, then normalizes and validates
// it. On failure the error envelope has already been written and ok is false.
func Bind[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	req := new(T)
	if err := decodeBody(r.Body, req); err != nil {
		logger.WarnContext(ctx, "request body rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, err)
		return nil, false
	}
	if err := Prepare(req); err != nil {
		logger.WarnContext(ctx, "request failed validation",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

// Prepare runs Normalize then Validate on req when it implements them.
// Plain errors from Validate become validation failures.
func Prepare(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.New(dErrors.CodeValidation, err.Error())
}

func decodeBody(body io.Reader, dst any) error {
	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body too large")
	case errors.Is(err, io.EOF):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body is required")
	default:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
}
