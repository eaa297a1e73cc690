package application

import "errors"

// ErrCommandNotFound is returned when help is requested for an unknown command.
var ErrCommandNotFound = errors.New("command not found")
