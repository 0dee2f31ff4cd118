package shell

import "errors"

// Sentinel parse and validation errors, matchable with errors.Is.
var (
	// ErrEmptyCommandBeforePipe is reported when a pipe has no command to
	// its left, e.g. "| grep x" or "ls | | grep x".
	ErrEmptyCommandBeforePipe = errors.New("syntax error near unexpected token `|'")

	// ErrEmptyCommandAfterPipe is reported when the line ends after a pipe
	// with no command following it, e.g. "ls |".
	ErrEmptyCommandAfterPipe = errors.New("syntax error: unexpected end of file")

	// ErrUnterminatedQuote is reported when the line ends inside a single or
	// double quoted string.
	ErrUnterminatedQuote = errors.New("syntax error: unterminated quoted string")

	// ErrEmptyPipeline is reported by Validate for pipelines with no
	// segments.
	ErrEmptyPipeline = errors.New("empty pipeline")

	// ErrEmptyProgram is reported by Validate for segments with no program
	// name.
	ErrEmptyProgram = errors.New("empty program name")
)

// SyntaxError is the failure mode of Parse. It retains the offending raw
// input so callers can show it alongside the message.
type SyntaxError struct {
	Input string
	Err   error
}

func (e *SyntaxError) Error() string {
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
