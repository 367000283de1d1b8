package ai

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("ai provider not configured")

type Stage string

const (
	StageAnalyze  Stage = "analyze"
	StageOptimize Stage = "optimize"
	StageVary     Stage = "vary"
)

// Prompt is one self-contained request. Each call is a fresh session:
// nothing is carried over between prompts.
type Prompt struct {
	Stage  Stage
	System string
	User   string
}

// Generator turns a prompt into generated text.
// Every failure is returned as *ServiceError.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// ServiceError is a transport or provider failure of the text-generation service.
type ServiceError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the call may succeed.
func (e *ServiceError) Retryable() bool {
	if e.StatusCode == 429 || e.StatusCode >= 500 {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func serviceErr(provider string, status int, err error) *ServiceError {
	return &ServiceError{Provider: provider, StatusCode: status, Err: err}
}
