// Package repository defines the storage contracts shared by the MySQL and
// MongoDB backends, plus the sentinel errors both of them return. Services
// depend only on these interfaces; which implementation sits behind them is
// decided once at startup.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches nothing. Services
// translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a unique constraint
// (MySQL error 1062 or a Mongo duplicate key). Services translate it into
// a 409.
var ErrDuplicate = errors.New("duplicate")
