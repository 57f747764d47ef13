package codec

import (
	"sort"

	"github.com/tacogips/rcsync/internal/template/model"
)

// SlotKind tells where a value object sits inside a parameter.
type SlotKind int

const (
	// SlotDefault is the parameter's defaultValue.
	SlotDefault SlotKind = iota
	// SlotConditional is an entry of conditionalValues.
	SlotConditional
)

// Slot locates a value string inside a parameter.
type Slot struct {
	Kind SlotKind
	// Condition is the condition name for SlotConditional.
	Condition string
	// Field is the value-bearing field inside the value object.
	Field string
}

// Value-bearing fields of a value object.
const (
	FieldValue        = "value"
	FieldRolloutValue = "rolloutValue.value"
)

// String renders the slot as a dotted path, e.g. conditionalValues[ios].value.
func (s Slot) String() string {
	prefix := "defaultValue"
	if s.Kind == SlotConditional {
		prefix = "conditionalValues[" + s.Condition + "]"
	}
	if s.Field == "" {
		return prefix
	}
	return prefix + "." + s.Field
}

// VisitValues calls fn for the default value and then every conditional value in
// condition name order. Nil value objects are skipped.
func VisitValues(p *model.Parameter, fn func(Slot, *model.Value) error) error {
	if p == nil {
		return nil
	}
	if p.DefaultValue != nil {
		if err := fn(Slot{Kind: SlotDefault}, p.DefaultValue); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(p.ConditionalValues))
	for name := range p.ConditionalValues {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := p.ConditionalValues[name]
		if v == nil {
			continue
		}
		if err := fn(Slot{Kind: SlotConditional, Condition: name}, v); err != nil {
			return err
		}
	}
	return nil
}

// VisitStrings calls fn with a pointer to every present value string of the
// parameter, so fn may rewrite it in place.
func VisitStrings(p *model.Parameter, fn func(Slot, *string) error) error {
	return VisitValues(p, func(slot Slot, v *model.Value) error {
		if v.Value != nil {
			slot.Field = FieldValue
			if err := fn(slot, v.Value); err != nil {
				return err
			}
		}
		if v.RolloutValue != nil {
			slot.Field = FieldRolloutValue
			if err := fn(slot, &v.RolloutValue.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// rewriteJSONStrings applies transform to every non-empty value string of a
// JSON-typed parameter. Other parameters are left alone.
func rewriteJSONStrings(p *model.Parameter, format model.Format, transform func(string) (string, error)) error {
	if !p.IsJSON() {
		return nil
	}
	return VisitStrings(p, func(slot Slot, s *string) error {
		if *s == "" {
			return nil
		}
		out, err := transform(*s)
		if err != nil {
			return newMalformedSlotError(format, slot, err)
		}
		*s = out
		return nil
	})
}
