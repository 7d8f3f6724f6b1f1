package stream

import "errors"

var (
	// ErrInvalidStreamState reports an operation invoked on a manager in the wrong role, such as data
	// delivered to a manager that is not a sink. It indicates a defect in a concrete Behavior, not a remote fault.
	ErrInvalidStreamState = errors.New("invalid stream state")
	// ErrStreamAborted wraps abort reasons raised locally, e.g. when a stage fails to process a batch.
	ErrStreamAborted = errors.New("stream aborted")
	// ErrTerminalOutput is returned when an outbound path is requested from a manager that terminates its stream.
	ErrTerminalOutput = errors.New("manager output is terminal")
)
