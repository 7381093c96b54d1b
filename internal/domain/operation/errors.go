package operation

import (
	"errors"
	"fmt"
)

// Every failure returned by Dispatch wraps exactly one of these.
var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrLaunchFailure     = errors.New("launch failure")
	ErrGenerationFailure = errors.New("generation failure")

	ErrDuplicateOperation = errors.New("operation already registered")
)

// ParamError names the parameter that failed validation and the constraint
// it broke. It unwraps to ErrInvalidParameters.
type ParamError struct {
	Param      string
	Constraint string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: parameter %q %s", ErrInvalidParameters, e.Param, e.Constraint)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameters }

// Outcome classifies a finished call for logs and the audit trail.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeNonZeroExit       Outcome = "nonzero_exit"
	OutcomeUnknownOperation  Outcome = "unknown_operation"
	OutcomeInvalidParameters Outcome = "invalid_parameters"
	OutcomeLaunchFailure     Outcome = "launch_failure"
	OutcomeGenerationFailure Outcome = "generation_failure"
	OutcomeError             Outcome = "error"
)

// OutcomeOf maps a Dispatch return pair onto an Outcome.
func OutcomeOf(res *Result, err error) Outcome {
	switch {
	case errors.Is(err, ErrUnknownOperation):
		return OutcomeUnknownOperation
	case errors.Is(err, ErrInvalidParameters):
		return OutcomeInvalidParameters
	case errors.Is(err, ErrLaunchFailure):
		return OutcomeLaunchFailure
	case errors.Is(err, ErrGenerationFailure):
		return OutcomeGenerationFailure
	case err != nil:
		return OutcomeError
	case res != nil && res.Execution != nil && res.Execution.ExitCode != 0:
		return OutcomeNonZeroExit
	default:
		return OutcomeSuccess
	}
}
