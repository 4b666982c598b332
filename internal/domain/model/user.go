package model

import "strings"

// UserID is the opaque identifier LINE issues for an end user.
// Nothing else about the user is kept.
type UserID string

func (id UserID) String() string { return string(id) }

// IsZero reports whether the id is empty after trimming whitespace.
func (id UserID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }
