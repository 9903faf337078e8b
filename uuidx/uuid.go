// Package uuidx provides the stable identifier type used for node
// instances across the module: a 128-bit value with a canonical string
// form, backed by github.com/google/uuid.
package uuidx

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a 128-bit identifier. The zero value is the all-zero UUID and
// is not Valid.
type UUID struct {
	id uuid.UUID
}

// Nil is the all-zero UUID.
var Nil = UUID{}

// New generates a random (version 4) UUID.
func New() UUID {
	return UUID{id: uuid.New()}
}

// Parse parses the canonical string form (with or without hyphens,
// matching google/uuid's accepted formats) into a UUID.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("parse uuid %q: %w", s, err)
	}
	return UUID{id: id}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// for hard-coded node IDs in builtin graphs.
func MustParse(s string) UUID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Valid reports whether u is not the all-zero UUID.
func (u UUID) Valid() bool {
	return u.id != uuid.Nil
}

// Equal reports whether u and other name the same identifier.
func (u UUID) Equal(other UUID) bool {
	return u.id == other.id
}

// Less provides a total order over UUIDs so they can be sorted
// deterministically; it orders by canonical string form, the same
// order the chimod serializer sorts node ids in.
func (u UUID) Less(other UUID) bool {
	return u.String() < other.String()
}

// MarshalJSON renders the UUID as its canonical JSON string form.
func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.id.String())
}

// UnmarshalJSON parses the UUID from its canonical JSON string form.
func (u *UUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var inner uuid.UUID
	if err := inner.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	u.id = inner
	return nil
}

// Value implements driver.Valuer so a UUID can be passed directly as a
// database/sql argument, stored as its canonical string form.
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}
