package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoLabel  = color.New(color.FgCyan).SprintFunc()
)

// ConsoleSink prints one colored line per report, for interactive commands.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Report(err *Error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", label(err.Kind), err.Error())
}

func label(kind Kind) string {
	text := fmt.Sprintf("[%s]", kind)
	switch kind {
	case LoadFailure:
		return errorLabel(text)
	case UnsafeInputRejected:
		return infoLabel(text)
	default:
		return warnLabel(text)
	}
}
