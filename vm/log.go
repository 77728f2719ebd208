package vm

import (
	"strings"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// ---------------------------------------------------------------------------
// Diagnostics: the engine's line-oriented log sink
// ---------------------------------------------------------------------------

// Diagnostics collects diagnostic text the way the style language reports
// it: messages are written in fragments and classified afterwards as
// warnings or errors. Completed messages are forwarded to a commonlog
// logger; the full transcript is kept for the host (and for tests).
type Diagnostics struct {
	logger     commonlog.Logger
	buf        strings.Builder
	transcript strings.Builder
	warnings   int
	errors     int
}

// NewDiagnostics creates a sink logging under the given commonlog name.
func NewDiagnostics(name string) *Diagnostics {
	return &Diagnostics{logger: commonlog.GetLogger(name)}
}

// Print appends a message fragment.
func (d *Diagnostics) Print(s string) {
	d.buf.WriteString(s)
	d.transcript.WriteString(s)
}

func (d *Diagnostics) emit(log func(string, ...any)) {
	for _, line := range strings.Split(d.buf.String(), "\n") {
		if line != "" {
			log(line)
		}
	}
	d.buf.Reset()
}

// Flush forwards any buffered fragments as an informational message.
func (d *Diagnostics) Flush() {
	if d.buf.Len() > 0 {
		d.emit(d.logger.Info)
	}
}

// MarkWarning counts the buffered message as a warning and forwards it.
func (d *Diagnostics) MarkWarning() {
	d.warnings++
	d.emit(d.logger.Warning)
}

// MarkError counts the buffered message as an error and forwards it.
func (d *Diagnostics) MarkError() {
	d.errors++
	d.emit(d.logger.Error)
}

// Warnings returns the number of warnings reported so far.
func (d *Diagnostics) Warnings() int { return d.warnings }

// Errors returns the number of errors reported so far.
func (d *Diagnostics) Errors() int { return d.errors }

// Transcript returns everything printed so far.
func (d *Diagnostics) Transcript() string { return d.transcript.String() }
