package diff

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/tacogips/rcsync/internal/template/model"
)

// ChangeKind classifies a per-parameter change.
type ChangeKind string

const (
	// ChangeAdded means the parameter exists only in the new snapshot.
	ChangeAdded ChangeKind = "added"
	// ChangeRemoved means the parameter exists only in the old snapshot.
	ChangeRemoved ChangeKind = "removed"
	// ChangeModified means the parameter exists in both with different content.
	ChangeModified ChangeKind = "modified"
)

// TopLevelScope is the scope of parameters outside any group.
const TopLevelScope = model.ParametersDir

// Change describes one parameter that differs between two snapshots.
type Change struct {
	// Scope is "parameters" or "parameterGroups/<group>".
	Scope string
	// Key is the parameter key.
	Key string
	// Kind classifies the change.
	Kind ChangeKind
}

// Path returns Scope/Key, matching the parameter's path in a checkout.
func (c Change) Path() string {
	return c.Scope + "/" + c.Key
}

// Summarize lists the parameters that differ from old to new, sorted by scope
// and key. JSON-typed values are compared after minification.
func Summarize(old, new *model.Template) []Change {
	oldScopes := scopes(normalize(orEmpty(old)))
	newScopes := scopes(normalize(orEmpty(new)))

	names := map[string]bool{}
	for name := range oldScopes {
		names[name] = true
	}
	for name := range newScopes {
		names[name] = true
	}

	var changes []Change
	for name := range names {
		changes = append(changes, compareScope(name, oldScopes[name], newScopes[name])...)
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Scope != changes[j].Scope {
			return changes[i].Scope < changes[j].Scope
		}
		return changes[i].Key < changes[j].Key
	})
	return changes
}

func compareScope(scope string, old, new map[string]*model.Parameter) []Change {
	var changes []Change
	for key, p := range old {
		q, ok := new[key]
		switch {
		case !ok:
			changes = append(changes, Change{Scope: scope, Key: key, Kind: ChangeRemoved})
		case !sameParameter(p, q):
			changes = append(changes, Change{Scope: scope, Key: key, Kind: ChangeModified})
		}
	}
	for key := range new {
		if _, ok := old[key]; !ok {
			changes = append(changes, Change{Scope: scope, Key: key, Kind: ChangeAdded})
		}
	}
	return changes
}

func scopes(t *model.Template) map[string]map[string]*model.Parameter {
	out := map[string]map[string]*model.Parameter{}
	if len(t.Parameters) > 0 {
		out[TopLevelScope] = t.Parameters
	}
	for name, g := range t.ParameterGroups {
		if g != nil && len(g.Parameters) > 0 {
			out[model.ParameterGroupsDir+"/"+name] = g.Parameters
		}
	}
	return out
}

// sameParameter compares the wire forms.
func sameParameter(a, b *model.Parameter) bool {
	left, errA := json.Marshal(a)
	right, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		// Only a NaN or infinite rollout percent, e.g. ".inf" in a YAML file,
		// fails to marshal.
		return reflect.DeepEqual(a, b)
	}
	return string(left) == string(right)
}

func orEmpty(t *model.Template) *model.Template {
	if t == nil {
		return &model.Template{}
	}
	return t
}
