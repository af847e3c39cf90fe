package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/siherrmann/combiner/model"
)

const uniqueViolation = pq.ErrorCode("23505")

// mapUniqueViolation turns a postgres unique violation into
// model.ErrDuplicateCombination and returns other errors unchanged.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return model.ErrDuplicateCombination
	}
	return err
}
