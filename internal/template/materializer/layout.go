package materializer

import (
	"path/filepath"
	"strings"

	"github.com/tacogips/rcsync/internal/template/model"
)

// Layout maps template keys to paths below a checkout root.
//
//	<root>/parameters/<parameterKey>
//	<root>/parameterGroups/<groupKey>/<parameterKey>
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at root ("." when empty).
func NewLayout(root string) Layout {
	if root == "" {
		root = "."
	}
	return Layout{Root: filepath.Clean(root)}
}

// ParametersDir returns the directory of top-level parameters.
func (l Layout) ParametersDir() string {
	return filepath.Join(l.Root, model.ParametersDir)
}

// GroupsDir returns the directory holding one subdirectory per group.
func (l Layout) GroupsDir() string {
	return filepath.Join(l.Root, model.ParameterGroupsDir)
}

// GroupDir returns the directory of a group.
func (l Layout) GroupDir(group string) (string, error) {
	if err := ValidateKey(group); err != nil {
		return "", err
	}
	return filepath.Join(l.GroupsDir(), group), nil
}

// ParameterPath returns the file of a top-level parameter.
func (l Layout) ParameterPath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.ParametersDir(), key), nil
}

// GroupParameterPath returns the file of a parameter inside a group.
func (l Layout) GroupParameterPath(group, key string) (string, error) {
	dir, err := l.GroupDir(group)
	if err != nil {
		return "", err
	}
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(dir, key), nil
}

// DefaultsPath returns the path of a static defaults export such as default.xml.
func (l Layout) DefaultsPath(name string) string {
	return filepath.Join(l.Root, name)
}

// ValidateKey rejects keys that cannot round-trip through a file name.
// Keys starting with a dot are rejected because hidden entries are skipped on read.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return &InvalidKeyError{Key: key, Reason: "key is empty"}
	case key == "." || key == "..":
		return &InvalidKeyError{Key: key, Reason: "key is a relative path element"}
	case strings.HasPrefix(key, "."):
		return &InvalidKeyError{Key: key, Reason: "key starts with a dot"}
	case strings.ContainsAny(key, `/\`+"\x00"):
		return &InvalidKeyError{Key: key, Reason: "key contains a path separator or NUL"}
	case strings.ContainsRune(key, filepath.Separator):
		return &InvalidKeyError{Key: key, Reason: "key contains a path separator"}
	}
	return nil
}

// isHidden reports whether a directory entry is skipped on read.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
