package enums

import "fmt"

// LedgerSource identifies the upstream record a ledger entry was posted from.
type LedgerSource string

const (
	LedgerSourceDTR    LedgerSource = "DTR"
	LedgerSourceCURB   LedgerSource = "CURB"
	LedgerSourceEZPass LedgerSource = "EZPASS"
	LedgerSourcePVB    LedgerSource = "PVB"
)

var validLedgerSources = []LedgerSource{
	LedgerSourceDTR,
	LedgerSourceCURB,
	LedgerSourceEZPass,
	LedgerSourcePVB,
}

// String implements fmt.Stringer.
func (s LedgerSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LedgerSource.
func (s LedgerSource) IsValid() bool {
	for _, candidate := range validLedgerSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLedgerSource converts raw input into a LedgerSource.
func ParseLedgerSource(value string) (LedgerSource, error) {
	for _, candidate := range validLedgerSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger source %q", value)
}
