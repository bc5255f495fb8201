package engine

import "fmt"

// recorder accumulates the ordered reasoning trace and warnings for one
// evaluation. One trace entry is appended per derivation step actually
// executed, in execution order, so the trace doubles as an audit log.
type recorder struct {
	trace    []string
	warnings []string
}

func (r *recorder) step(format string, args ...any) {
	r.trace = append(r.trace, fmt.Sprintf(format, args...))
}

func (r *recorder) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}
