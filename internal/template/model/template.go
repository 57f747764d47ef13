package model

import (
	"encoding/json"
	"fmt"
)

// Template is a snapshot of the remote configuration template.
type Template struct {
	// ETag is the concurrency token captured at fetch time.
	// It travels in HTTP headers, never in the body.
	ETag string `json:"-"`
	// Conditions are preserved verbatim; their expressions are not interpreted.
	Conditions json.RawMessage `json:"conditions,omitempty"`
	// Parameters maps top-level parameter keys to parameters.
	Parameters map[string]*Parameter `json:"parameters,omitempty"`
	// ParameterGroups maps group keys to groups.
	ParameterGroups map[string]*ParameterGroup `json:"parameterGroups,omitempty"`
	// Version describes the published version this snapshot came from.
	Version *Version `json:"version,omitempty"`
}

// ParameterGroup is a named collection of parameters.
type ParameterGroup struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  map[string]*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Parameter is a single configurable value with a default and per-condition overrides.
type Parameter struct {
	DefaultValue      *Value            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	ConditionalValues map[string]*Value `json:"conditionalValues,omitempty" yaml:"conditionalValues,omitempty"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	ValueType         ValueType         `json:"valueType,omitempty" yaml:"valueType,omitempty"`
}

// Value is the body of a default or conditional value.
// Exactly one of its fields is normally set.
type Value struct {
	Value                *string               `json:"value,omitempty" yaml:"value,omitempty"`
	UseInAppDefault      bool                  `json:"useInAppDefault,omitempty" yaml:"useInAppDefault,omitempty"`
	PersonalizationValue *PersonalizationValue `json:"personalizationValue,omitempty" yaml:"personalizationValue,omitempty"`
	RolloutValue         *RolloutValue         `json:"rolloutValue,omitempty" yaml:"rolloutValue,omitempty"`
}

// PersonalizationValue references a personalization; it carries no value string.
type PersonalizationValue struct {
	PersonalizationID string `json:"personalizationId,omitempty" yaml:"personalizationId,omitempty"`
}

// RolloutValue references a rollout and carries the value served to it.
type RolloutValue struct {
	RolloutID string  `json:"rolloutId,omitempty" yaml:"rolloutId,omitempty"`
	Value     string  `json:"value,omitempty" yaml:"value,omitempty"`
	Percent   float64 `json:"percent,omitempty" yaml:"percent,omitempty"`
}

// Version describes a published template version.
type Version struct {
	VersionNumber  string `json:"versionNumber,omitempty"`
	UpdateTime     string `json:"updateTime,omitempty"`
	UpdateUser     *User  `json:"updateUser,omitempty"`
	Description    string `json:"description,omitempty"`
	UpdateOrigin   string `json:"updateOrigin,omitempty"`
	UpdateType     string `json:"updateType,omitempty"`
	RollbackSource string `json:"rollbackSource,omitempty"`
	IsLegacy       bool   `json:"isLegacy,omitempty"`
}

// User identifies who published a version.
type User struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// StringValue returns a Value holding s.
func StringValue(s string) *Value {
	return &Value{Value: &s}
}

// IsJSON reports whether the parameter's value strings hold serialized JSON.
func (p *Parameter) IsJSON() bool {
	return p != nil && p.ValueType == ValueTypeJSON
}

// Clone returns a deep copy of the parameter.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	out := &Parameter{
		DefaultValue: p.DefaultValue.Clone(),
		Description:  p.Description,
		ValueType:    p.ValueType,
	}
	if p.ConditionalValues != nil {
		out.ConditionalValues = make(map[string]*Value, len(p.ConditionalValues))
		for name, v := range p.ConditionalValues {
			out.ConditionalValues[name] = v.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the value.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{UseInAppDefault: v.UseInAppDefault}
	if v.Value != nil {
		s := *v.Value
		out.Value = &s
	}
	if v.PersonalizationValue != nil {
		pv := *v.PersonalizationValue
		out.PersonalizationValue = &pv
	}
	if v.RolloutValue != nil {
		rv := *v.RolloutValue
		out.RolloutValue = &rv
	}
	return out
}

// Clone returns a deep copy of the group.
func (g *ParameterGroup) Clone() *ParameterGroup {
	if g == nil {
		return nil
	}
	return &ParameterGroup{
		Description: g.Description,
		Parameters:  cloneParameters(g.Parameters),
	}
}

// Clone returns a deep copy of the template. Snapshots are never aliased.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := &Template{
		ETag:       t.ETag,
		Parameters: cloneParameters(t.Parameters),
	}
	if t.Conditions != nil {
		out.Conditions = append(json.RawMessage(nil), t.Conditions...)
	}
	if t.ParameterGroups != nil {
		out.ParameterGroups = make(map[string]*ParameterGroup, len(t.ParameterGroups))
		for key, g := range t.ParameterGroups {
			out.ParameterGroups[key] = g.Clone()
		}
	}
	if t.Version != nil {
		v := *t.Version
		if v.UpdateUser != nil {
			u := *v.UpdateUser
			v.UpdateUser = &u
		}
		out.Version = &v
	}
	return out
}

// WithContent returns a new template that keeps the receiver's etag, conditions and
// version but replaces its parameters and groups. Only those two are locally editable.
func (t *Template) WithContent(parameters map[string]*Parameter, groups map[string]*ParameterGroup) *Template {
	base := t.Clone()
	if base == nil {
		base = &Template{}
	}
	base.Parameters = parameters
	base.ParameterGroups = groups
	if base.Parameters == nil {
		base.Parameters = map[string]*Parameter{}
	}
	if base.ParameterGroups == nil {
		base.ParameterGroups = map[string]*ParameterGroup{}
	}
	return base
}

// ParameterCount returns the number of parameters including those inside groups.
func (t *Template) ParameterCount() int {
	if t == nil {
		return 0
	}
	n := len(t.Parameters)
	for _, g := range t.ParameterGroups {
		if g != nil {
			n += len(g.Parameters)
		}
	}
	return n
}

// VersionNumber returns the published version number or "unknown".
func (t *Template) VersionNumber() string {
	if t == nil || t.Version == nil || t.Version.VersionNumber == "" {
		return "unknown"
	}
	return t.Version.VersionNumber
}

// String returns a short description of the snapshot.
func (t *Template) String() string {
	if t == nil {
		return "<nil template>"
	}
	return fmt.Sprintf("template(version=%s, etag=%s, parameters=%d, groups=%d)",
		t.VersionNumber(), t.ETag, len(t.Parameters), len(t.ParameterGroups))
}

func cloneParameters(in map[string]*Parameter) map[string]*Parameter {
	if in == nil {
		return nil
	}
	out := make(map[string]*Parameter, len(in))
	for key, p := range in {
		out[key] = p.Clone()
	}
	return out
}
