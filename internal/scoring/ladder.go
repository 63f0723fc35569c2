package scoring

// Rule pairs a predicate with the result it selects.
type Rule[In, Out any] struct {
	When func(In) bool
	Then Out
}

// Ladder is an ordered threshold table. Rules are evaluated top to bottom and
// the first matching rule wins; Else applies when none match.
type Ladder[In, Out any] struct {
	Rules []Rule[In, Out]
	Else  Out
}

// Resolve evaluates the ladder for in.
func (l Ladder[In, Out]) Resolve(in In) Out {
	for _, r := range l.Rules {
		if r.When(in) {
			return r.Then
		}
	}
	return l.Else
}

// AtLeast builds a predicate matching values >= threshold.
func AtLeast(threshold float64) func(float64) bool {
	return func(v float64) bool { return v >= threshold }
}
