package models

import "fmt"

type Stage string

const (
	StageVision    Stage = "vision"
	StageReasoning Stage = "reasoning"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindTimeout    ErrorKind = "timeout"
	KindUpstream   ErrorKind = "upstream"
	KindConfig     ErrorKind = "config"
)

// StageError classifies a pipeline failure: which stage broke and
// whether the fault is the caller's input, an upstream deadline, an
// upstream response, or our own configuration. Validation and config
// errors happen before any stage runs and carry an empty Stage.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s stage %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewValidationError(err error) *StageError {
	return &StageError{Kind: KindValidation, Err: err}
}

func NewConfigError(err error) *StageError {
	return &StageError{Kind: KindConfig, Err: err}
}

func NewTimeoutError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindTimeout, Err: err}
}

func NewUpstreamError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindUpstream, Err: err}
}
