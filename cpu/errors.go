package cpu

import "errors"

// ErrPrivilegedAccess is returned when an S=1 block-transfer instruction
// executes while the processor is already in User mode.
var ErrPrivilegedAccess = errors.New("privileged operation attempted in user mode")
