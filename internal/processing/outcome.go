package processing

// Outcome reports whether a fallible per-record step produced a computed
// value or fell back to a default. Defaults are never errors here; the
// outcome exists so callers and tests can tell the two paths apart.
type Outcome int

const (
	OutcomeComputed Outcome = iota
	OutcomeDefaulted
)

func (o Outcome) String() string {
	if o == OutcomeDefaulted {
		return "defaulted"
	}
	return "computed"
}
