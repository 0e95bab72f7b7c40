package enums

import (
	"fmt"
	"strings"
)

// DriverStatus tracks whether a driver currently holds an active lease.
type DriverStatus string

const (
	DriverStatusPending  DriverStatus = "Pending"
	DriverStatusActive   DriverStatus = "Active"
	DriverStatusInactive DriverStatus = "Inactive"
)

var validDriverStatuses = []DriverStatus{
	DriverStatusPending,
	DriverStatusActive,
	DriverStatusInactive,
}

// String implements fmt.Stringer.
func (d DriverStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DriverStatus.
func (d DriverStatus) IsValid() bool {
	for _, candidate := range validDriverStatuses {
		if d == candidate {
			return true
		}
	}
	return false
}

// ParseDriverStatus converts raw input into a DriverStatus.
func ParseDriverStatus(value string) (DriverStatus, error) {
	for _, candidate := range validDriverStatuses {
		if strings.EqualFold(value, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown driver status %q", value)
}
