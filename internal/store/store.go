// Package store provides database access methods for all catalog
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Sort and search requests name a field and, optionally, a
// related entity; both are validated against a closed enumeration before
// any SQL is built, so URL parameters never reach query construction.
package store

import (
	"errors"
	"strings"
)

// Sentinel errors returned when a caller requests a field/relation
// combination outside the allowed enumeration. Handlers turn these into
// client errors rather than server errors.
var (
	ErrUnknownSortKey   = errors.New("store: unknown sort field")
	ErrUnknownSearchKey = errors.New("store: unknown search field")
	ErrInvalidDirection = errors.New("store: invalid sort direction")
)

// Direction is a validated sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection validates a direction string from a URL parameter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return "", ErrInvalidDirection
}

// queryKey identifies one allowed (field, related entity) pair.
type queryKey struct {
	Field   string
	Related string
}

// queryTarget holds the SQL fragments for one allowed sort/search key:
// an optional extra join and the qualified column to order or match on.
type queryTarget struct {
	Join   string
	Column string
}
