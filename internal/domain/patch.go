package domain

import "strings"

// Patch is a partial record produced by the interpreter. It may carry one
// reserved control status plus an optional message or payment category.
type Patch map[string]any

// Directive returns the control status carried by the patch. Unknown
// status values are reported as no directive.
func (p Patch) Directive() (Directive, bool) {
	raw, ok := p[KeySystemStatus].(string)
	if !ok {
		return "", false
	}
	d := Directive(strings.ToUpper(strings.TrimSpace(raw)))
	if !ValidDirectives[d] {
		return "", false
	}
	return d, true
}

// Message returns the reserved response message, if any.
func (p Patch) Message() string {
	return ValueString(p[KeyResponseMessage])
}

// PaymentCategory returns the reserved payment category in upper case.
func (p Patch) PaymentCategory() PaymentCategory {
	return PaymentCategory(strings.ToUpper(strings.TrimSpace(ValueString(p[KeyPaymentCategory]))))
}

// Fields returns a copy of the patch without reserved control keys and
// without keys owned by the reconciler.
func (p Patch) Fields() map[string]any {
	out := CloneObject(map[string]any(p))
	for _, k := range ReservedKeys {
		delete(out, k)
	}
	for _, k := range SystemOwnedKeys {
		delete(out, k)
	}
	return out
}
