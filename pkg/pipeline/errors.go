package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindParse
	KindConfig
	KindValidation
	KindMapping
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindMapping:
		return "mapping"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// Error is returned by every failing pipeline step.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindIO:
		return 2
	case KindParse:
		return 3
	case KindValidation:
		return 4
	case KindMapping:
		return 5
	case KindRender:
		return 6
	case KindConfig:
		return 7
	default:
		return 1
	}
}
