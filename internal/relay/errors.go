package relay

import "errors"

var (
	ErrNameTaken         = errors.New("name taken")
	ErrRecipientNotFound = errors.New("recipient not found")
)
