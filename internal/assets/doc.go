// Package assets provides the stylesheet, page template and icons used to
// publish a comment section.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── FSLoader          - any fs.FS; NewEmbeddedLoader wraps the built-in copy
//	    ├── FilesystemLoader  - a custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// AssetResolver lets a site override one asset (say, the stylesheet) while
// keeping the built-in page template and boost icon.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # e.g. comments.css
//	├── templates/
//	│   └── {name}.html          # e.g. page.html
//	└── icons/
//	    └── {name}.svg           # e.g. boost.svg
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// opens files with os.OpenInRoot, so symlinks cannot leave the directory.
package assets
