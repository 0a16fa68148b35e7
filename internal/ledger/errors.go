package ledger

import "errors"

var ErrUnknownAction = errors.New("unknown ledger action")
