package catalog

import (
	"fmt"

	"github.com/chrisdamba/menuar/internal/docstore"
)

// NotFoundError names the record that could not be resolved. It matches
// docstore.ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return docstore.ErrNotFound
}
