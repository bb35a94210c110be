package models

import "errors"

// ErrUnauthorizedActor is returned when the acting user is not a legitimate
// party to the project or offer. The operation is rejected outright, never
// partially applied.
var ErrUnauthorizedActor = errors.New("actor is not a party to this project")
