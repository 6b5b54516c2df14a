package physics

import (
	"errors"
	"fmt"

	"github.com/j-rock/fortress-sub001/entity"
)

// ErrStaleHandle is returned when a handle no longer refers to a live object
var ErrStaleHandle = errors.New("physics: stale handle")

// DuplicateRegistrationError is the panic value raised when a live id is
// registered twice. Two live objects sharing a handle means the registrar
// can no longer attribute collisions, so it is never recovered
type DuplicateRegistrationError struct {
	ID       EntityID
	Existing entity.Entity
	Incoming entity.Entity
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("physics: %s already registered to %s, refusing %s", e.ID, e.Existing, e.Incoming)
}

// BorrowError is the panic value raised when the simulation is mutated while
// it is stepping or dispatching events
type BorrowError struct {
	Op    string
	Owner string
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("physics: %s while simulation is borrowed by %s", e.Op, e.Owner)
}

// ExpiredViewError is the panic value raised when a WorldView is used after
// the update that created it returned
type ExpiredViewError struct {
	Op string
}

func (e *ExpiredViewError) Error() string {
	return fmt.Sprintf("physics: world view used after its update returned (%s)", e.Op)
}
