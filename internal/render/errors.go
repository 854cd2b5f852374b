package render

import "errors"

// ErrPageRender indicates the page template could not be loaded or executed.
var ErrPageRender = errors.New("page render failed")
