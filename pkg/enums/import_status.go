package enums

// ImportStatus tracks an imported toll/violation record through its lifecycle.
type ImportStatus string

const (
	ImportStatusImported   ImportStatus = "Imported"
	ImportStatusAssociated ImportStatus = "Associated"
	ImportStatusPosted     ImportStatus = "Posted"
	ImportStatusFailed     ImportStatus = "Failed"
)

// String implements fmt.Stringer.
func (s ImportStatus) String() string {
	return string(s)
}

// LogStatus summarizes an import/association batch.
type LogStatus string

const (
	LogStatusPending    LogStatus = "Pending"
	LogStatusProcessing LogStatus = "Processing"
	LogStatusSuccess    LogStatus = "Success"
	LogStatusPartial    LogStatus = "Partial"
	LogStatusFailure    LogStatus = "Failure"
)

// String implements fmt.Stringer.
func (s LogStatus) String() string {
	return string(s)
}

// LogType names the operation a batch log covers.
type LogType string

const (
	LogTypeImport    LogType = "Import"
	LogTypeAssociate LogType = "Associate"
	LogTypePost      LogType = "Post"
)

// String implements fmt.Stringer.
func (t LogType) String() string {
	return string(t)
}
