package db

import "errors"

// ErrKeyNotFound is a cache miss.
var ErrKeyNotFound = errors.New("db: key not found")

// Commands issued by the embedding cache.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"
)

// Error is a failed store command. Key is empty for keyless commands such as PING.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
