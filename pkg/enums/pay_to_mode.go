package enums

// PayToMode names how a payee receives funds.
type PayToMode string

const (
	PayToModeACH   PayToMode = "ACH"
	PayToModeCheck PayToMode = "Check"
)

// String implements fmt.Stringer.
func (p PayToMode) String() string {
	return string(p)
}
