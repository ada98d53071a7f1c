// Package hybrid implements the two-phase ensemble classifier for
// authorship attribution.
//
// Phase 1 trains one binary estimator per class (one-vs-rest) and assigns
// a sample only when exactly one estimator claims it. Everything else is
// handed to phase 2, which polls one estimator per class pair (one-vs-one)
// and assigns only when a single class wins the vote outright. Samples
// that fail both phases stay unclassified: the classifier prefers
// abstaining over guessing.
package hybrid

import "fmt"

// Outcome is the terminal classification result for one test sample:
// either an assigned class or a deliberate abstention. Abstention is a
// designed outcome, not an error.
type Outcome struct {
	class    int
	assigned bool
}

// Assigned returns an Outcome carrying the given class.
func Assigned(class int) Outcome {
	return Outcome{class: class, assigned: true}
}

// Unclassified returns the abstention Outcome.
func Unclassified() Outcome {
	return Outcome{}
}

// Class returns the assigned class and true, or 0 and false for an
// abstention.
func (o Outcome) Class() (int, bool) {
	return o.class, o.assigned
}

func (o Outcome) String() string {
	if !o.assigned {
		return "unclassified"
	}
	return fmt.Sprintf("class %d", o.class)
}
