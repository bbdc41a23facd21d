package board

import "errors"

var (
	// ErrInvalidFEN wraps every FEN parse or validation failure.
	ErrInvalidFEN = errors.New("invalid FEN")
	// ErrInvalidPosition is returned by Validate.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidSquare is returned for malformed square names.
	ErrInvalidSquare = errors.New("invalid square")
	// ErrIllegalMove means no legal move matches the request.
	ErrIllegalMove = errors.New("illegal move")
	// ErrAmbiguousMove means a SAN string matches several legal moves.
	ErrAmbiguousMove = errors.New("ambiguous move")
	// ErrMagicNotFound means the magic search ran out of trials for a square.
	ErrMagicNotFound = errors.New("magic multiplier not found")
)
