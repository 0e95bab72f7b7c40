package models

// All returns every model in dependency order, used by dev auto-migration and
// the sqlite-backed tests.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&Address{},
		&BankAccount{},
		&Individual{},
		&Corporation{},
		&CorporationPayee{},
		&Entity{},
		&VehicleEntity{},
		&Dealer{},
		&Medallion{},
		&MedallionOwner{},
		&MOLease{},
		&Vehicle{},
		&VehicleHackup{},
		&VehicleRegistration{},
		&VehicleInspection{},
		&Driver{},
		&DMVLicense{},
		&TLCLicense{},
		&Lease{},
		&LeaseDriver{},
		&Sequence{},
		&LedgerEntry{},
		&DailyReceipt{},
		&EZPassLog{},
		&EZPassTransaction{},
		&PVBLog{},
		&PVBViolation{},
		&CURBTrip{},
		&CaseType{},
		&CaseStatus{},
		&CaseStep{},
		&CaseStepConfig{},
		&CaseStepConfigPath{},
		&CaseTypeFirstStep{},
	}
}
