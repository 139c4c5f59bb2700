package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Renderer loads templates from a file system and writes rendered output.
// Parsed templates are cached; a Renderer is safe for concurrent use.
type Renderer struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[string]*Template
}

// NewRenderer creates a Renderer over fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{
		fsys:  fsys,
		cache: make(map[string]*Template),
	}
}

// Load returns the parsed template at path.
func (r *Renderer) Load(path string) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[path]; ok {
		return t, nil
	}

	data, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	t, err := Parse(path, string(data))
	if err != nil {
		return nil, err
	}
	r.cache[path] = t
	return t, nil
}

// Execute renders the template at path into memory.
func (r *Renderer) Execute(path string, vars Vars) (string, error) {
	t, err := r.Load(path)
	if err != nil {
		return "", err
	}
	return t.Execute(vars)
}

// Render renders the template at templatePath to outputPath, creating parent
// directories as needed. Output is fully rendered before anything is
// written, and replaces any existing file atomically, so a failed render
// leaves the previous file untouched.
func (r *Renderer) Render(templatePath, outputPath string, vars Vars) error {
	content, err := r.Execute(templatePath, vars)
	if err != nil {
		return err
	}
	return WriteFile(outputPath, []byte(content))
}

// WriteFile atomically replaces path with data, mode 0600.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true
	return nil
}
