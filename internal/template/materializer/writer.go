package materializer

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tacogips/rcsync/internal/debug"
)

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile writes content to a file, creating parent directories as needed.
	WriteFile(path string, content []byte) error

	// CreateDir creates a directory and any necessary parent directories.
	// An existing directory is not an error.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) bool
}

// FileWriter implements Writer for filesystem operations.
type FileWriter struct {
	// FileMode is the permission of written files.
	FileMode os.FileMode
	// DirMode is the permission of created directories.
	DirMode os.FileMode
}

// NewFileWriter creates a new FileWriter with 0644 files and 0755 directories.
func NewFileWriter() *FileWriter {
	return &FileWriter{
		FileMode: 0644,
		DirMode:  0755,
	}
}

// WriteFile writes content to a file.
// Writes atomically using a hidden temporary file and rename, so a reader never
// sees a partially written parameter and the temporary name is skipped on read.
func (w *FileWriter) WriteFile(path string, content []byte) error {
	debug.Debug("[materializer] Writing file: %s (size: %d bytes)", path, len(content))

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := w.CreateDir(dir); err != nil {
			return err
		}
	}

	tempFile := filepath.Join(dir, "."+filepath.Base(path)+".tmp")
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, w.FileMode)
	if err != nil {
		return newFileSystemError("write", path, err)
	}

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return newFileSystemError("write", path, err)
	}
	if closeErr != nil {
		_ = os.Remove(tempFile)
		return newFileSystemError("write", path, closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return newFileSystemError("write", path, err)
	}

	debug.Debug("[materializer] File written successfully: %s", path)
	return nil
}

// CreateDir creates a directory and any necessary parent directories.
func (w *FileWriter) CreateDir(path string) error {
	if err := os.MkdirAll(path, w.DirMode); err != nil {
		return newFileSystemError("create directory", path, err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FileWriter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RecordingWriter records intended writes without touching the filesystem.
// Exists still consults the real filesystem so results can report overwrites.
type RecordingWriter struct {
	mu          sync.Mutex
	files       map[string][]byte
	directories map[string]bool
}

// NewRecordingWriter creates an empty RecordingWriter.
func NewRecordingWriter() *RecordingWriter {
	return &RecordingWriter{
		files:       map[string][]byte{},
		directories: map[string]bool{},
	}
}

// WriteFile records the content that would be written.
func (w *RecordingWriter) WriteFile(path string, content []byte) error {
	debug.Debug("[materializer] Dry run: would write %s (size: %d bytes)", path, len(content))
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = append([]byte(nil), content...)
	return nil
}

// CreateDir records the directory and every missing parent.
func (w *RecordingWriter) CreateDir(path string) error {
	for dir := filepath.Clean(path); !w.Exists(dir); dir = filepath.Dir(dir) {
		debug.Debug("[materializer] Dry run: would create directory %s", dir)
		w.mu.Lock()
		w.directories[dir] = true
		w.mu.Unlock()
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return nil
}

// Exists checks the real filesystem and the recorded directories.
func (w *RecordingWriter) Exists(path string) bool {
	w.mu.Lock()
	recorded := w.directories[path]
	w.mu.Unlock()
	if recorded {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// Content returns the recorded content for path.
func (w *RecordingWriter) Content(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	content, ok := w.files[path]
	return content, ok
}

// Directories returns the directories that would be created, parents first.
func (w *RecordingWriter) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.directories))
	for dir := range w.directories {
		dirs = append(dirs, dir)
	}
	sortPaths(dirs)
	return dirs
}

// sortPaths sorts paths so parent directories come before children.
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		di, dj := pathDepth(paths[i]), pathDepth(paths[j])
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
}

// pathDepth returns the depth of a path (number of path separators).
func pathDepth(path string) int {
	clean := filepath.Clean(path)
	if clean == "." || clean == "/" {
		return 0
	}
	depth := 0
	for _, c := range clean {
		if c == filepath.Separator {
			depth++
		}
	}
	return depth
}
