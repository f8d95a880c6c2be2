package linkgraph

import "fmt"

// ValidationError indicates malformed graph input: an edge endpoint that
// cannot be resolved to a page identity, or an unrecognized link
// classification. Construction aborts on the first violation; no partial
// graph is ever returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid graph input: %s %q: %s", e.Field, e.Value, e.Reason)
}
