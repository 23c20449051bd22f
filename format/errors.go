package format

import (
	"errors"
	"fmt"

	"github.com/poiesic/pagestream/core"
)

var (
	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("decode failed")

	// ErrWrongRepresentation indicates a payload representation the adapter
	// cannot read, such as text handed to a binary container adapter.
	ErrWrongRepresentation = errors.New("unsupported payload representation")

	// ErrUnknownFormat is returned by Detect when no content type matches.
	ErrUnknownFormat = errors.New("unknown document format")
)

// DecodeError reports that a payload could not be opened or parsed as the
// adapter's container format. It is yielded at most once, before any
// fragment, and ends the sequence.
type DecodeError struct {
	ContentType core.ContentType
	Err         error
}

// NewDecodeError wraps err as a DecodeError for ct.
func NewDecodeError(ct core.ContentType, err error) *DecodeError {
	return &DecodeError{ContentType: ct, Err: err}
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s", e.ContentType)
	}
	return fmt.Sprintf("decode %s: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
