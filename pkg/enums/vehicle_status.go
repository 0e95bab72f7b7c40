package enums

import "fmt"

// VehicleStatus tracks where a vehicle sits in its fleet lifecycle.
type VehicleStatus string

const (
	VehicleStatusNew      VehicleStatus = "New"
	VehicleStatusHackedUp VehicleStatus = "Hacked Up"
	VehicleStatusActive   VehicleStatus = "Active"
	VehicleStatusRetired  VehicleStatus = "Retired"
)

var validVehicleStatuses = []VehicleStatus{
	VehicleStatusNew,
	VehicleStatusHackedUp,
	VehicleStatusActive,
	VehicleStatusRetired,
}

// String implements fmt.Stringer.
func (v VehicleStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleStatus.
func (v VehicleStatus) IsValid() bool {
	for _, candidate := range validVehicleStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleStatus converts raw input into a VehicleStatus.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	for _, candidate := range validVehicleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle status %q", value)
}
