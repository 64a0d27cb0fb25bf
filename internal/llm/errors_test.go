package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

func TestExhaustedReason(t *testing.T) {
	tests := []struct {
		name string
		last error
		want Reason
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ReasonTimeout},
		{"openai 429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, ReasonRateLimited},
		{"googleapi 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, ReasonUnavailable},
		{"quota text", errors.New("rpc error: code = ResourceExhausted desc = Quota exceeded"), ReasonRateLimited},
		{"overloaded text", errors.New("The model is overloaded. Please try again later."), ReasonUnavailable},
		{"blocked", &genai.BlockedError{}, ReasonBlocked},
		{"other", errors.New("connection reset by peer"), ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ExhaustedError{Attempts: []*ModelError{
				{Model: "m1", Err: errors.New("first")},
				{Model: "m2", Err: tt.last},
			}}
			if got := e.Reason(); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExhaustedReasonEmpty(t *testing.T) {
	if got := (&ExhaustedError{}).Reason(); got != ReasonUnknown {
		t.Errorf("Reason() = %q, want unknown", got)
	}
}
