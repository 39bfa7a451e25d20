package models

import "fmt"

// InsufficientDataError is returned when the cleaned panel is too small for
// reliable statistical fitting.
type InsufficientDataError struct {
	Rows    int
	MinRows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d usable rows after cleaning, need at least %d", e.Rows, e.MinRows)
}

// InfeasibleStorageError is returned when the feasible order range collapses:
// the minimum practical order exceeds what remaining storage can absorb.
type InfeasibleStorageError struct {
	MinOrderTons         float64
	MaxOrderTons         float64
	CurrentInventoryTons float64
	StorageCapacityTons  float64
}

func (e *InfeasibleStorageError) Error() string {
	return fmt.Sprintf(
		"infeasible storage: minimum order %.1f t exceeds available capacity %.1f t (inventory %.1f t of %.1f t capacity)",
		e.MinOrderTons, e.MaxOrderTons, e.CurrentInventoryTons, e.StorageCapacityTons)
}
