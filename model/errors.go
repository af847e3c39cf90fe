package model

import "errors"

// ErrDuplicateCombination is returned by ledger stores when a record for the
// label was created concurrently. Callers re-read instead of failing.
var ErrDuplicateCombination = errors.New("combination record already exists")
