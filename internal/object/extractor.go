package object

// ExtractorOutcome is the result of invoking an extractor hook. Acceptance
// and the optional override value are separate signals: an extractor can
// accept and hand back a falsy value (null, false, "") for structural
// matching to continue against, which a plain truthy return could not
// express.
type ExtractorOutcome struct {
	kind     outcomeKind
	override Object
}

type outcomeKind int

const (
	outcomeReject outcomeKind = iota
	outcomeAcceptOriginal
	outcomeAcceptOverride
)

// Reject signals that the extractor refuses the value; the clause fails.
func Reject() ExtractorOutcome {
	return ExtractorOutcome{kind: outcomeReject}
}

// AcceptOriginal signals success; structural matching continues against the
// original input value.
func AcceptOriginal() ExtractorOutcome {
	return ExtractorOutcome{kind: outcomeAcceptOriginal}
}

// Accept signals success with an override: structural matching continues
// against val instead of the original input.
func Accept(val Object) ExtractorOutcome {
	return ExtractorOutcome{kind: outcomeAcceptOverride, override: val}
}

func (o ExtractorOutcome) Accepted() bool {
	return o.kind != outcomeReject
}

// Value resolves the value structural matching should proceed against.
func (o ExtractorOutcome) Value(original Object) Object {
	if o.kind == outcomeAcceptOverride {
		return o.override
	}
	return original
}
