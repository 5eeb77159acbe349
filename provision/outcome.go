package provision

// Outcome records how one tool's pipeline ended.
type Outcome struct {
	Tool string
	// Published is the installed shim path on success.
	Published string
	Err       error
	Warnings  []string
}

// Failed reports whether the tool's pipeline ended in an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Summary aggregates the outcomes of one run.
type Summary struct {
	Outcomes []Outcome
}

// Succeeded counts tools that were fully published.
func (s *Summary) Succeeded() int { return len(s.Outcomes) - s.FailedCount() }

// FailedCount counts tools whose pipeline failed.
func (s *Summary) FailedCount() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes, in processing order.
func (s *Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}
