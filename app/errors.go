package app

import "github.com/iov-one/custody/errors"

// ErrNoSuchPath is returned when a message has no registered handler.
var ErrNoSuchPath = errors.Register(19, "path not registered")
