package hopscotch

import "errors"

// ErrInvalidCapacity signals that a requested table capacity is zero,
// not a power of two, or smaller than HopRange.
var ErrInvalidCapacity = errors.New("hopscotch: invalid capacity")
