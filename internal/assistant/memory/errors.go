package memory

import (
	"fmt"

	"github.com/dmitrijs2005/finassist/internal/common"
)

// CorruptStateError reports a memory file that exists but cannot be decoded.
// It matches common.ErrCorruptState with errors.Is.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: %s: %v", common.ErrCorruptState, e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() []error {
	return []error{common.ErrCorruptState, e.Err}
}
