package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrEmptyTable = errors.New("table has no rows")
	ErrNoSeries   = errors.New("table has no plottable round")
)
