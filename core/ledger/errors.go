package ledger

import "errors"

// ErrRecordNotFound is returned when incrementing a record that does not exist
var ErrRecordNotFound = errors.New("combination record not found")
