// Package materializer projects a template onto a directory tree of
// per-parameter files and reconstructs a template from such a tree.
package materializer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/codec"
	"github.com/tacogips/rcsync/internal/template/model"
)

// PlannedFile describes a file produced by a write pass.
type PlannedFile struct {
	// Path is the output file path.
	Path string
	// Content is the encoded parameter.
	Content []byte
	// Exists indicates the file was already present (and is or would be overwritten).
	Exists bool
}

// WriteResult contains the outcome of a write pass.
type WriteResult struct {
	// FilesCreated is the number of new files.
	FilesCreated int
	// FilesOverwritten is the number of existing files replaced.
	FilesOverwritten int
	// Files lists every parameter file in traversal order.
	Files []PlannedFile
	// Directories lists directories that would be created (dry run only).
	Directories []string
}

// Materializer maps templates to and from a checkout tree.
type Materializer struct {
	writer Writer
}

// New creates a Materializer that writes through w.
// A nil writer selects a FileWriter.
func New(w Writer) *Materializer {
	if w == nil {
		w = NewFileWriter()
	}
	return &Materializer{writer: w}
}

// Write materializes every parameter of tmpl below layout.Root.
// Existing files for the same keys are overwritten; other files are never touched
// or removed.
func (m *Materializer) Write(ctx context.Context, layout Layout, tmpl *model.Template, format model.Format) (*WriteResult, error) {
	return m.write(ctx, m.writer, layout, tmpl, format)
}

// DryRun performs the same traversal as Write but issues no filesystem writes.
func (m *Materializer) DryRun(ctx context.Context, layout Layout, tmpl *model.Template, format model.Format) (*WriteResult, error) {
	rec := NewRecordingWriter()
	result, err := m.write(ctx, rec, layout, tmpl, format)
	if err != nil {
		return nil, err
	}
	result.Directories = rec.Directories()
	return result, nil
}

func (m *Materializer) write(ctx context.Context, w Writer, layout Layout, tmpl *model.Template, format model.Format) (*WriteResult, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}

	debug.Debug("[materializer] Writing template: root=%s, format=%s, parameters=%d, groups=%d",
		layout.Root, format, len(tmpl.Parameters), len(tmpl.ParameterGroups))

	// Every path and value is checked before the first write so a bad
	// parameter leaves the tree untouched.
	dirs, files, err := plan(ctx, layout, tmpl, format)
	if err != nil {
		return nil, err
	}

	result := &WriteResult{Files: make([]PlannedFile, 0, len(files))}
	for _, dir := range dirs {
		if err := w.CreateDir(dir); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.Exists = w.Exists(f.Path)
		if err := w.WriteFile(f.Path, f.Content); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, f)
		if f.Exists {
			result.FilesOverwritten++
		} else {
			result.FilesCreated++
		}
	}

	debug.Debug("[materializer] Write complete: created=%d, overwritten=%d",
		result.FilesCreated, result.FilesOverwritten)
	return result, nil
}

// plan resolves the directories and encoded files of tmpl in traversal order.
func plan(ctx context.Context, layout Layout, tmpl *model.Template, format model.Format) ([]string, []PlannedFile, error) {
	// Both roots are created even when empty so a later Read finds them.
	dirs := []string{layout.ParametersDir(), layout.GroupsDir()}
	var files []PlannedFile

	add := func(path string, p *model.Parameter) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := encodeParameter(path, p, format)
		if err != nil {
			return err
		}
		files = append(files, PlannedFile{Path: path, Content: content})
		return nil
	}

	for _, key := range sortedKeys(tmpl.Parameters) {
		path, err := layout.ParameterPath(key)
		if err != nil {
			return nil, nil, err
		}
		if err := add(path, tmpl.Parameters[key]); err != nil {
			return nil, nil, err
		}
	}

	for _, group := range sortedKeys(tmpl.ParameterGroups) {
		dir, err := layout.GroupDir(group)
		if err != nil {
			return nil, nil, err
		}
		dirs = append(dirs, dir)

		g := tmpl.ParameterGroups[group]
		if g == nil {
			continue
		}
		for _, key := range sortedKeys(g.Parameters) {
			path, err := layout.GroupParameterPath(group, key)
			if err != nil {
				return nil, nil, err
			}
			if err := add(path, g.Parameters[key]); err != nil {
				return nil, nil, err
			}
		}
	}
	return dirs, files, nil
}

func encodeParameter(path string, p *model.Parameter, format model.Format) ([]byte, error) {
	if p == nil {
		p = &model.Parameter{}
	}
	content, err := codec.Encode(p, format)
	if err != nil {
		var malformed *codec.MalformedValueError
		if errors.As(err, &malformed) {
			return nil, malformed.WithPath(path)
		}
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return content, nil
}

// Read reconstructs a template from the tree below layout.Root.
// Only parameters and groups come from disk; the etag, conditions and version
// are carried over from base. Group descriptions of groups that still exist are
// carried over as well, because directories cannot hold them.
// The first unreadable or malformed file aborts the read.
func (m *Materializer) Read(ctx context.Context, layout Layout, base *model.Template, format model.Format) (*model.Template, error) {
	debug.Debug("[materializer] Reading template: root=%s, format=%s", layout.Root, format)

	paramsDir := layout.ParametersDir()
	if err := requireDir(paramsDir); err != nil {
		return nil, err
	}
	groupsDir := layout.GroupsDir()
	if err := requireDir(groupsDir); err != nil {
		return nil, err
	}

	parameters, err := readParameters(ctx, paramsDir, format)
	if err != nil {
		return nil, err
	}

	groupNames, err := listEntries(groupsDir, true)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*model.ParameterGroup, len(groupNames))
	for _, name := range groupNames {
		dir := filepath.Join(groupsDir, name)
		groupParams, err := readParameters(ctx, dir, format)
		if err != nil {
			return nil, err
		}
		group := &model.ParameterGroup{Parameters: groupParams}
		if base != nil {
			if prev := base.ParameterGroups[name]; prev != nil {
				group.Description = prev.Description
			}
		}
		groups[name] = group
	}

	var result *model.Template
	if base != nil {
		result = base.WithContent(parameters, groups)
	} else {
		result = (&model.Template{}).WithContent(parameters, groups)
	}

	debug.Debug("[materializer] Read complete: parameters=%d, groups=%d",
		len(result.Parameters), len(result.ParameterGroups))
	return result, nil
}

// readParameters decodes every regular file in dir into a parameter map.
func readParameters(ctx context.Context, dir string, format model.Format) (map[string]*model.Parameter, error) {
	names, err := listEntries(dir, false)
	if err != nil {
		return nil, err
	}

	params := make(map[string]*model.Parameter, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, newFileSystemError("read", path, err)
		}

		p, err := codec.Decode(data, format)
		if err != nil {
			var malformed *codec.MalformedValueError
			if errors.As(err, &malformed) {
				return nil, malformed.WithPath(path)
			}
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		debug.Debug("[materializer] Read parameter %s from %s", name, path)
		params[name] = p
	}
	return params, nil
}

// listEntries returns the visible entries of dir, which must all be directories
// (wantDirs) or all be files. Symlinks are followed.
func listEntries(dir string, wantDirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newFileSystemError("list", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				return nil, newFileSystemError("stat", filepath.Join(dir, name), err)
			}
			isDir = info.IsDir()
		}

		if isDir != wantDirs {
			expected := "a file"
			if wantDirs {
				expected = "a directory"
			}
			return nil, &FileSystemError{
				Op:      "read",
				Path:    filepath.Join(dir, name),
				Message: "expected " + expected,
			}
		}
		if err := ValidateKey(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &DirectoryMissingError{Path: path}
		}
		return newFileSystemError("stat", path, err)
	}
	if !info.IsDir() {
		return &FileSystemError{Op: "read", Path: path, Message: "not a directory"}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
