// internal/types/errors.go
package types

import "errors"

// Error taxonomy for the gold pipeline. Per-record parse failures are not
// represented here: those are swallowed at the parsing boundary.
var (
	// ErrNetwork covers connection failures, timeouts and non-2xx statuses.
	ErrNetwork = errors.New("gagal terhubung ke server API")

	// ErrDataUnavailable means the API answered but the body was empty or
	// not a JSON array.
	ErrDataUnavailable = errors.New("data tidak tersedia")

	// ErrInvalidPrice guards the rupiah conversion against division by zero.
	ErrInvalidPrice = errors.New("harga tidak valid")

	// ErrNoData means the history resolver exhausted its fallback budget
	// without finding a single non-empty window.
	ErrNoData = errors.New("tidak ada data historis yang tersedia")
)
