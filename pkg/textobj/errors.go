package textobj

import "errors"

// ErrNoEnclosingFunction is returned when the cursor is not inside any
// function-like construct of the active language.
var ErrNoEnclosingFunction = errors.New("no function found at cursor")

// ErrUnsupportedLanguage is returned when no adapter is registered for the
// document's language, or the language is disabled by configuration.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrStaleTree is returned when the syntax tree was parsed from different
// text than the document currently holds.
var ErrStaleTree = errors.New("syntax tree does not match document")

// ErrUnknownOperation is returned for an operation or text object kind
// outside the supported set.
var ErrUnknownOperation = errors.New("unknown text object operation")

// IsNoTarget reports whether err means the invocation found nothing to act
// on. Unsupported languages degrade the same way as a cursor outside any
// function.
func IsNoTarget(err error) bool {
	return errors.Is(err, ErrNoEnclosingFunction) || errors.Is(err, ErrUnsupportedLanguage)
}
