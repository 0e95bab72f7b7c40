package models

// CaseType is a workflow case category. Prefix is the short code the config
// sheets use to reference it.
type CaseType struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"column:name;not null;uniqueIndex:ux_case_types_name"`
	Prefix      string  `gorm:"column:prefix;not null;uniqueIndex:ux_case_types_prefix"`
	Description *string `gorm:"column:description"`
	Audit
}

// CaseStatus keyed by name.
type CaseStatus struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"column:name;not null;uniqueIndex:ux_case_statuses_name"`
	Description *string `gorm:"column:description"`
	Audit
}

// CaseStep keyed by name; weight orders steps within a case type.
type CaseStep struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"column:name;not null;uniqueIndex:ux_case_steps_name"`
	Weight     int    `gorm:"column:weight;not null;default:0"`
	CaseTypeID *int64 `gorm:"column:case_type_id"`
	Audit
}

// CaseStepConfig keyed by the workbook's numeric step_id; roles are replaced
// wholesale on import. StepName carries the sheet's display name so the
// config-files sheet can find the row without the numeric id.
type CaseStepConfig struct {
	ID             int64   `gorm:"primaryKey"`
	StepID         int64   `gorm:"column:step_id;not null;uniqueIndex:ux_case_step_configs_step"`
	CaseStepID     *int64  `gorm:"column:case_step_id"`
	StepName       *string `gorm:"column:step_name"`
	CaseTypeID     *int64  `gorm:"column:case_type_id"`
	NextStepID     *string `gorm:"column:next_step_id"`
	NextAssigneeID *int64  `gorm:"column:next_assignee_id"`
	Audit

	Roles []Role `gorm:"many2many:case_step_config_roles;joinForeignKey:CaseStepConfigID;joinReferences:RoleID"`
}

// CaseStepConfigPath keyed by case_step_config_id.
type CaseStepConfigPath struct {
	ID               int64  `gorm:"primaryKey"`
	CaseStepConfigID int64  `gorm:"column:case_step_config_id;not null;uniqueIndex:ux_case_step_config_paths_config"`
	Path             string `gorm:"column:path;not null;default:''"`
	Audit
}

// CaseTypeFirstStep keyed by case_type_id.
type CaseTypeFirstStep struct {
	ID               int64 `gorm:"primaryKey"`
	CaseTypeID       int64 `gorm:"column:case_type_id;not null;uniqueIndex:ux_case_type_first_steps_type"`
	CaseStepConfigID int64 `gorm:"column:case_step_config_id;not null"`
	Audit
}
