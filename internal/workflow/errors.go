package workflow

import "errors"

// Every workflow failure wraps one of these. The workflow stays usable after
// any of them.
var (
	// ErrHostAPI means reading, searching or editing the document failed.
	ErrHostAPI = errors.New("document host error")

	// ErrNetwork means a suggestion or dictionary request failed.
	ErrNetwork = errors.New("suggestion service error")

	// ErrNotFound means the word to replace no longer occurs in the document.
	ErrNotFound = errors.New("word not found in document")

	// ErrNoInput means the document has no text left after cleaning.
	ErrNoInput = errors.New("no text found in document")

	// ErrNoEntry means an action named a word the pane does not list.
	ErrNoEntry = errors.New("no pending entry for word")

	// ErrInvalidAction means the action kind or its candidate is not usable.
	ErrInvalidAction = errors.New("invalid action")
)
