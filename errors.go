package fedicomments

import (
	"errors"

	"github.com/alnah/go-fedicomments/internal/render"
)

// Sentinel errors for library operations.
var (
	// ErrEmptyInstance indicates no instance domain was given.
	ErrEmptyInstance = errors.New("instance cannot be empty")

	// ErrEmptyPostID indicates no root post id was given.
	ErrEmptyPostID = errors.New("post id cannot be empty")

	// ErrRootPost indicates the root post itself could not be fetched.
	// Reply failures never surface as errors.
	ErrRootPost = errors.New("fetching root post failed")

	// ErrDiscovery indicates the server software could not be mapped to a
	// flavor.
	ErrDiscovery = errors.New("flavor discovery failed")
)

// ErrRender indicates the page template or stylesheet could not be used.
var ErrRender = render.ErrPageRender
