package study

import "errors"

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrDeckExists   = errors.New("a deck with that name already exists")
	ErrNoBirthday   = errors.New("no birthday configured")
)
