package ingestion

import (
	"errors"
	"fmt"

	"github.com/poiesic/pagestream/core"
)

var (
	// ErrUnsupportedType is matched by every *UnsupportedTypeError.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrAdapterRequired is returned when a nil adapter is supplied to WithAdapter.
	ErrAdapterRequired = errors.New("adapter required")

	// ErrPipelineRequired is returned when a runner is created without a pipeline.
	ErrPipelineRequired = errors.New("pipeline required")
)

// UnsupportedTypeError reports a content type with no registered adapter.
type UnsupportedTypeError struct {
	ContentType core.ContentType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported content type: %s", e.ContentType)
}

// Is makes errors.Is(err, ErrUnsupportedType) hold.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
