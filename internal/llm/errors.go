package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ErrNoCredential is returned when no API key is configured and demo
// mode is off.
var ErrNoCredential = errors.New("no API key configured: set QUIZFORGE_API_KEY or GEMINI_API_KEY")

// ModelError records one candidate model rejecting a request.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned when every candidate model failed.
type ExhaustedError struct {
	Attempts []*ModelError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no models configured"
	}
	if e.AccessDenied() {
		return fmt.Sprintf("all %d models failed: check that your API key has access to the Gemini models", len(e.Attempts))
	}
	return fmt.Sprintf("all %d models failed, last error: %v", len(e.Attempts), e.Unwrap())
}

// Unwrap returns the last underlying error.
func (e *ExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// AccessDenied reports whether every attempt failed with a not-found,
// permission or invalid-key signal, meaning the credential itself is the
// problem.
func (e *ExhaustedError) AccessDenied() bool {
	if len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if !isAccessError(a.Err) {
			return false
		}
	}
	return true
}

// Reason classifies why the last attempt failed.
type Reason string

const (
	ReasonUnknown     Reason = ""
	ReasonTimeout     Reason = "timeout"
	ReasonRateLimited Reason = "rate_limited"
	ReasonUnavailable Reason = "unavailable"
	ReasonBlocked     Reason = "blocked"
)

// Reason reports why the last model failed, without exposing provider
// messages.
func (e *ExhaustedError) Reason() Reason {
	return classify(e.Unwrap())
}

var (
	rateSignals        = []string{"429", "quota", "resource_exhausted", "rate limit"}
	unavailableSignals = []string{"503", "unavailable", "overloaded", "internal error"}
)

func classify(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return ReasonBlocked
	}
	if code := statusCode(err); code != 0 {
		switch {
		case code == http.StatusTooManyRequests:
			return ReasonRateLimited
		case code >= http.StatusInternalServerError:
			return ReasonUnavailable
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateSignals):
		return ReasonRateLimited
	case containsAny(msg, unavailableSignals):
		return ReasonUnavailable
	}
	return ReasonUnknown
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ParseError is returned when the model answered but the answer does not
// hold a valid quiz. It is not retried against other models.
type ParseError struct {
	Model string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.Model, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var accessSignals = []string{
	"404", "not found", "403", "permission", "permission_denied",
	"api key not valid", "api_key_invalid", "401", "unauthenticated",
}

func isAccessError(err error) bool {
	if err == nil {
		return false
	}
	switch statusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return containsAny(strings.ToLower(err.Error()), accessSignals)
}
