package enums

import "fmt"

// OwnerType discriminates medallion owners between people and corporations.
type OwnerType string

const (
	OwnerTypeIndividual  OwnerType = "I"
	OwnerTypeCorporation OwnerType = "C"
)

// String implements fmt.Stringer.
func (o OwnerType) String() string {
	return string(o)
}

// ParseOwnerType converts raw input into an OwnerType.
func ParseOwnerType(value string) (OwnerType, error) {
	switch OwnerType(value) {
	case OwnerTypeIndividual:
		return OwnerTypeIndividual, nil
	case OwnerTypeCorporation:
		return OwnerTypeCorporation, nil
	}
	return "", fmt.Errorf("invalid owner type %q", value)
}
