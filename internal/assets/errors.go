package assets

import "errors"

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrIconNotFound     = errors.New("icon not found")

	// ErrInvalidAssetName reports a name that is not a bare file stem.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath reports an asset directory that cannot be opened.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal reports a symlink leading out of the asset directory.
	ErrPathTraversal = errors.New("asset escapes its directory")
)
