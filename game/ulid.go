// ABOUTME: ULID generation helper using crypto/rand entropy.
// ABOUTME: Centralizes game id creation so all code uses the same source.
package game

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID using crypto/rand entropy.
func NewULID() ulid.ULID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}
