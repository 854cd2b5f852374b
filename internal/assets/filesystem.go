package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemLoader loads assets from a directory on the filesystem. Reads go
// through os.OpenInRoot, so neither names nor symlinks reach outside it.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a FilesystemLoader for dir.
// Returns ErrInvalidBasePath if dir is not a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePath, abs, err)
	}
	defer func() { _ = root.Close() }()

	if _, err := root.Stat("."); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{dir: abs}, nil
}

// LoadStyle reads {dir}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

// LoadTemplate reads {dir}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

// LoadIcon reads {dir}/icons/{name}.svg.
func (f *FilesystemLoader) LoadIcon(name string) (string, error) {
	return f.load(iconKind, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	rel := filepath.Join(k.dir, name+k.ext)

	file, err := os.OpenInRoot(f.dir, rel)
	if err != nil {
		return "", f.openError(k, name, rel, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, rel, err)
	}
	return string(content), nil
}

// openError classifies a failed open. A symlink that exists but cannot be
// opened inside the root points outside it.
func (f *FilesystemLoader) openError(k kind, name, rel string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", k.notFound, name)
	}
	if info, lerr := os.Lstat(filepath.Join(f.dir, rel)); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrPathTraversal, rel)
	}
	return fmt.Errorf("%w: %s: %v", ErrAssetRead, rel, err)
}

var _ AssetLoader = (*FilesystemLoader)(nil)
