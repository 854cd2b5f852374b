package assets

import "encoding/base64"

// Names of the built-in assets.
const (
	DefaultStyleName = "comments"
	PageTemplateName = "page"
	BoostIconName    = "boost"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the embedded loader.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an HTML template by name using the embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadIcon loads an SVG icon by name using the embedded loader.
func LoadIcon(name string) (string, error) {
	return defaultLoader.LoadIcon(name)
}

// IconDataURI encodes an SVG document as a data: URI suitable for an img
// src, so a standalone page needs no companion files.
func IconDataURI(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
