package decode

import "errors"

// ErrUnsupportedEncoding is returned when a raw word matches none of the
// §4.1 category masks, or falls into a reserved sub-encoding (e.g. a
// comparison data-processing opcode with S clear, or an illegal multiply
// register combination).
var ErrUnsupportedEncoding = errors.New("unsupported instruction encoding")

// ErrUnsupportedIndexingMode is returned for the reserved (P=0, W=1)
// addressing mode on a single-data-transfer instruction.
var ErrUnsupportedIndexingMode = errors.New("unsupported indexing mode (P=0, W=1)")
