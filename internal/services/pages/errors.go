package pages

import "errors"

var (
	// ErrPageNotFound is returned for slugs that have no page and cannot get one
	ErrPageNotFound = errors.New("page not found")

	// ErrRender wraps template failures while generating a page
	ErrRender = errors.New("render failed")

	// ErrStopped is returned once the generator has been stopped
	ErrStopped = errors.New("generator stopped")
)
