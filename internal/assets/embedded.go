package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/* templates/* icons/*
var embedded embed.FS

// FSLoader loads assets from an fs.FS holding styles/, templates/ and
// icons/ directories.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader returns a loader reading from fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// NewEmbeddedLoader returns a loader for the assets compiled into the binary.
func NewEmbeddedLoader() *FSLoader {
	return NewFSLoader(embedded)
}

func (l *FSLoader) LoadStyle(name string) (string, error)    { return l.load(styleKind, name) }
func (l *FSLoader) LoadTemplate(name string) (string, error) { return l.load(templateKind, name) }
func (l *FSLoader) LoadIcon(name string) (string, error)     { return l.load(iconKind, name) }

func (l *FSLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(l.fsys, path.Join(k.dir, name+k.ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*FSLoader)(nil)
