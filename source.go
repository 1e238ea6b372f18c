package waterloo

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file extensions recognized as Python sources.
var DefaultExtensions = []string{".py"}

// Source finds the Python files to annotate.
type Source interface {
	// ListFiles returns all Python file paths known to this source.
	ListFiles() ([]string, error)

	// Open opens one of the listed files.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- File source (explicit paths) ---

type fileSource struct {
	paths []string
}

// Files creates a Source from an explicit list of file paths. No extension
// filtering is applied; the caller has already chosen the files.
func Files(paths ...string) Source {
	return &fileSource{paths: paths}
}

func (s *fileSource) ListFiles() ([]string, error) {
	return append([]string(nil), s.paths...), nil
}

func (s *fileSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- Dir source (single directory, no recursion) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source that lists a single directory (no recursion).
func Dir(path string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}, nil
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.path, entry.Name())
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
	}
	return files, nil
}

func (s *dirSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- DirTree source (recursive) ---

type treeSource struct {
	files  []string
	config sourceConfig
}

// DirTree creates a Source that recursively walks a directory tree.
// The tree is walked once at construction.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	extSet := makeExtensionSet(cfg.extensions)
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &treeSource{files: files, config: cfg}, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) ListFiles() ([]string, error) {
	return append([]string(nil), s.files...), nil
}

func (s *treeSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- FS source (for embed.FS, testing) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS or a test
// filesystem). The name is used to prefix paths in reports.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{name: name, fsys: fsys, config: cfg}
}

func (s *fsSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *fsSource) Open(path string) (io.ReadCloser, error) {
	return s.fsys.Open(path)
}

// --- Multi source ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	return files, nil
}

func (s *multiSource) Open(path string) (io.ReadCloser, error) {
	var lastErr error = fs.ErrNotExist
	for _, src := range s.sources {
		f, err := src.Open(path)
		if err == nil {
			return f, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
