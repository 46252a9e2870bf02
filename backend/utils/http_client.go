package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"taskboard/backend/logging"
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// NewBreaker builds the circuit breaker used in front of one downstream service.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// DownstreamError is a non-2xx answer from another service.
type DownstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Service, e.Status, e.Message)
}

// DoJSON sends req through breaker and decodes a 2xx JSON body into out (when out is non-nil).
// Non-2xx responses become *DownstreamError; 5xx answers also count as breaker failures.
func DoJSON(client *http.Client, breaker *gobreaker.CircuitBreaker, service string, req *http.Request, out any) error {
	result, err := breaker.Execute(func() (interface{}, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", service, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		derr := &DownstreamError{Service: service, Status: resp.StatusCode, Message: messageFrom(body)}
		if resp.StatusCode >= 500 {
			return nil, derr
		}
		// client errors are the caller's problem, not the downstream's health
		return derr, nil
	})
	if err != nil {
		return fmt.Errorf("call %s: %w", service, err)
	}

	switch v := result.(type) {
	case *DownstreamError:
		return v
	case []byte:
		if out == nil || len(v) == 0 {
			return nil
		}
		if err := json.Unmarshal(v, out); err != nil {
			return fmt.Errorf("decode %s response: %w", service, err)
		}
	}
	return nil
}

func messageFrom(body []byte) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return eb.Message
	}
	return string(body)
}

// AsFault turns a failed downstream call into a fault for the current caller. Client errors keep
// their status and message; anything else means the downstream is unavailable.
func AsFault(err error) error {
	var derr *DownstreamError
	if !errors.As(err, &derr) {
		return NewUnavailable(err.Error())
	}
	switch derr.Status {
	case http.StatusBadRequest:
		return NewValidation(derr.Message)
	case http.StatusUnauthorized:
		return NewUnauthorized(derr.Message)
	case http.StatusForbidden:
		return NewForbidden(derr.Message)
	case http.StatusNotFound:
		return NewNotFound(derr.Message)
	case http.StatusConflict:
		return NewConflict(derr.Message)
	}
	return NewUnavailable(derr.Message)
}
