package nezamcrawler

import "errors"

var (
	// ErrNavigationTimeout means a pagination control never became clickable.
	ErrNavigationTimeout = errors.New("navigation control not clickable in time")
	// ErrMissingTarget means a province or specialty name had no mapping.
	ErrMissingTarget = errors.New("target not found in mapping")
	// ErrPaginationCountUnparseable means the last pagination label has no page count.
	ErrPaginationCountUnparseable = errors.New("pagination count unparseable")
	// ErrPaginationMalformed means the pagination buttons carry no usable link.
	ErrPaginationMalformed = errors.New("pagination links malformed")
	// ErrSessionClosed means a browser operation ran outside Open/Close.
	ErrSessionClosed = errors.New("browser session is not open")
)
