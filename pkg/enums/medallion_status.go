package enums

import "fmt"

// MedallionStatus tracks whether a medallion is in service.
type MedallionStatus string

const (
	MedallionStatusPending MedallionStatus = "Pending"
	MedallionStatusActive  MedallionStatus = "Active"
	MedallionStatusStored  MedallionStatus = "Stored"
	MedallionStatusExpired MedallionStatus = "Expired"
)

var validMedallionStatuses = []MedallionStatus{
	MedallionStatusPending,
	MedallionStatusActive,
	MedallionStatusStored,
	MedallionStatusExpired,
}

// String implements fmt.Stringer.
func (m MedallionStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MedallionStatus.
func (m MedallionStatus) IsValid() bool {
	for _, candidate := range validMedallionStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMedallionStatus converts raw input into a MedallionStatus.
func ParseMedallionStatus(value string) (MedallionStatus, error) {
	for _, candidate := range validMedallionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid medallion status %q", value)
}
