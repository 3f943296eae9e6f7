// Package ai talks to a generative-text service over the OpenAI chat completions API.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/openai/openai-go/v3"
)

// ErrGenerationFailed matches every error returned by a Client.
var ErrGenerationFailed = errors.NewSentinel("generation failed")

// Request is a single prompt. System is optional.
type Request struct {
	System string
	User   string
	// JSON asks the service for a response that is a single JSON object.
	JSON bool
}

// Client completes prompts. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Kind classifies why a generation failed.
type Kind string

const (
	KindRateLimit  Kind = "rate_limit"
	KindQuota      Kind = "quota_exceeded"
	KindInvalid    Kind = "invalid_request"
	KindAuth       Kind = "authentication"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server_error"
	KindTimeout    Kind = "timeout"
	KindCanceled   Kind = "canceled"
	KindTransport  Kind = "transport"
	KindEmpty      Kind = "empty_response"
	KindDisabled   Kind = "disabled"
)

// Error describes a failed generation. It matches ErrGenerationFailed with errors.Is.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrGenerationFailed //nolint:errorlint // sentinel identity.
}

// KindOf returns the failure kind of err or the empty string if err did not come from a Client.
func KindOf(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

// classify maps a transport or API error to an *Error.
func classify(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, StatusCode: 0, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCanceled, StatusCode: 0, Err: err}
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return &Error{Kind: KindTransport, StatusCode: 0, Err: err}
	}
	kind := KindServer
	switch code := apiErr.StatusCode; {
	case code == http.StatusTooManyRequests:
		kind = KindRateLimit
		if strings.Contains(strings.ToLower(apiErr.Error()), "quota") {
			kind = KindQuota
		}
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		kind = KindInvalid
	case code == http.StatusUnauthorized:
		kind = KindAuth
	case code == http.StatusForbidden:
		kind = KindPermission
	case code == http.StatusNotFound:
		kind = KindNotFound
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		kind = KindTimeout
	}
	return &Error{Kind: kind, StatusCode: apiErr.StatusCode, Err: err}
}
