package bisim

import "fmt"

// UnrefinableError is returned (RefineConfig.OnUnrefinable ==
// FailUnrefinable) or the invariant is only logged and dropped
// (DropUnrefinable, the default) when no split along a counter-example's
// path can eliminate the violation
// (spec.md §4.6 step 5, SPEC_FULL.md §5 "OnUnrefinable").
type UnrefinableError struct {
	Invariant string
}

func (e *UnrefinableError) Error() string {
	return fmt.Sprintf("bisim: invariant %q has no refining split along its counter-example", e.Invariant)
}
