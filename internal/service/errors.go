package service

import "errors"

// ErrDelegationRescinded rejects any mutation attempted on a rescinded
// delegation. Rescission is terminal; nothing on the record may change
// afterwards, including a second rescission.
var ErrDelegationRescinded = errors.New("delegation is rescinded")
