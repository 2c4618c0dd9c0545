package molecule

import (
	"fmt"

	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// AtomNotFoundError reports a bond endpoint outside the molecule's atom range.
type AtomNotFoundError struct {
	ID    chem.AtomID
	MaxID chem.AtomID
}

func (e *AtomNotFoundError) Error() string {
	return fmt.Sprintf("atom ID %d is out of bounds (highest ID is %d)", e.ID, e.MaxID)
}

// DuplicateBondError reports a second bond between an already bonded pair.
type DuplicateBondError struct {
	Start chem.AtomID
	End   chem.AtomID
}

func (e *DuplicateBondError) Error() string {
	return fmt.Sprintf("duplicate bond: a bond already exists between atoms %d and %d", e.Start, e.End)
}

func newAtomNotFound(id, maxID chem.AtomID) *errors.AppError {
	cause := &AtomNotFoundError{ID: id, MaxID: maxID}
	return errors.New(errors.ErrCodeAtomNotFound, "atom not found").
		WithDetail(cause.Error()).
		WithCause(cause)
}

func newDuplicateBond(start, end chem.AtomID) *errors.AppError {
	cause := &DuplicateBondError{Start: start, End: end}
	return errors.New(errors.ErrCodeDuplicateBond, "duplicate bond").
		WithDetail(cause.Error()).
		WithCause(cause)
}

//Personal.AI order the ending
