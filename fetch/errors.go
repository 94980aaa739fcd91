package fetch

import "errors"

var (
	// ErrBrowserUnavailable indicates the shared browser process could not
	// be started at all. This is fatal to the whole batch, unlike per-URL
	// failures.
	ErrBrowserUnavailable = errors.New("browser unavailable")

	// ErrNavigation indicates navigation did not complete within the
	// navigation timeout.
	ErrNavigation = errors.New("navigation_error")

	// ErrInsufficientContent indicates the cleaned text was too short to be
	// a real article, regardless of whether navigation succeeded.
	ErrInsufficientContent = errors.New("insufficient_content")
)
