package usecase

// Aliases so external tests in usecase_test can reach package internals.
const (
	DefaultPageSize    = defaultPageSize
	MaxPageSize        = maxPageSize
	DefaultTopProducts = defaultTopProducts
)

var MinorUnits = minorUnits
