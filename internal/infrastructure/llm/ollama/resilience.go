package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "ollama status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("ollama %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("ollama %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// MalformedOutputError is a 2xx response whose model output could not be used:
// prose instead of JSON, a missing field, or a wrong embedding count.
type MalformedOutputError struct {
	Operation string
	Output    string
	Err       error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("ollama %s returned unusable output: %v", e.Operation, e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

func malformed(operation, output string, err error) error {
	const keep = 200
	if len(output) > keep {
		cut := keep
		for cut > 0 && !utf8.RuneStart(output[cut]) {
			cut--
		}
		output = output[:cut]
	}
	return &MalformedOutputError{Operation: operation, Output: output, Err: err}
}

var (
	retryAndTrip = resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	retryOnly    = resilience.ErrorClassification{Retryable: true}
	tripOnly     = resilience.ErrorClassification{RecordFailure: true}
	passThrough  = resilience.ErrorClassification{}
)

// classifyOllamaError decides retries and breaker accounting. Unusable model
// output is retried because sampling differs per call, but it does not count
// against the breaker since the server itself answered.
func classifyOllamaError(err error) resilience.ErrorClassification {
	var (
		statusErr    *HTTPStatusError
		malformedErr *MalformedOutputError
		netErr       net.Error
	)
	switch {
	case err == nil:
		return passThrough
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return passThrough
	case errors.As(err, &malformedErr):
		return retryOnly
	case resilience.IsCircuitOpen(err):
		return retryAndTrip
	case errors.As(err, &statusErr):
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return retryAndTrip
		}
		return passThrough
	case errors.As(err, &netErr):
		return retryAndTrip
	default:
		return tripOnly
	}
}

// wrapTemporaryIfNeeded marks errors that a later call may not hit again.
func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyOllamaError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
