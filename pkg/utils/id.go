package utils

import "github.com/google/uuid"

// NewID returns the canonical form used for user primary keys.
func NewID() string { return uuid.NewString() }
