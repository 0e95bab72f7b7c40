// Package bpm imports the workflow configuration workbook: operator roles and
// accounts, case types, statuses, steps and their step routing config.
package bpm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// Bootstrap identity for the first import into an empty database. Every other
// row is stamped with this account.
const (
	SuperadminUsername = "superadmin"
	SuperadminEmail    = "superadmin@bat.com"
	SuperadminPassword = "bat@123"
)

// Dependencies carries the services the workflow parsers write through.
type Dependencies struct {
	Log         *logger.Logger
	Users       users.Service
	ActorUserID int64
}

func (d *Dependencies) validate() error {
	if d.Log == nil {
		return fmt.Errorf("logger is required")
	}
	if d.Users == nil {
		return fmt.Errorf("users service is required")
	}
	return nil
}

// Parsers returns the sheet parsers in import order. The roles sheet runs
// first and bootstraps the superadmin account the later sheets are stamped
// with.
func Parsers(deps *Dependencies) ([]seeder.SheetParser, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies are required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return []seeder.SheetParser{
		&rolesParser{deps: deps},
		&usersParser{deps: deps},
		&caseTypeParser{deps: deps},
		&caseStatusParser{deps: deps},
		&caseStepParser{deps: deps},
		&caseStepConfigParser{deps: deps},
		&caseStepConfigFilesParser{deps: deps},
		&caseFirstStepParser{deps: deps},
	}, nil
}

// ensureSuperadmin creates the bootstrap role and account when absent and
// returns the account id.
func ensureSuperadmin(ctx context.Context, tx *gorm.DB, deps *Dependencies) (int64, error) {
	role, _, err := deps.Users.UpsertRole(ctx, tx, users.RoleInput{
		Name:        SuperadminUsername,
		Description: "Superadmin User",
		ActorUserID: deps.ActorUserID,
	})
	if err != nil {
		return 0, err
	}

	existing, err := deps.Users.FindByUsername(ctx, tx, SuperadminUsername)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	user, _, err := deps.Users.UpsertUser(ctx, tx, users.UserInput{
		Username:    SuperadminUsername,
		Email:       SuperadminEmail,
		FullName:    SuperadminUsername,
		Password:    SuperadminPassword,
		RoleNames:   []string{role.Name},
		ActorUserID: deps.ActorUserID,
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// rolesParser bootstraps the superadmin identity and then upserts the roles
// sheet by name.
type rolesParser struct {
	deps *Dependencies
}

func (p *rolesParser) Name() string { return "roles" }

func (p *rolesParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	actorID, err := ensureSuperadmin(ctx, tx, p.deps)
	if err != nil {
		return stats, err
	}

	for _, row := range sheet.Rows() {
		name, ok := row.TrimString("name")
		if !ok {
			stats.Skipped++
			continue
		}
		description, _ := row.TrimString("description")
		_, created, err := p.deps.Users.UpsertRole(ctx, tx, users.RoleInput{
			Name:        name,
			Description: description,
			ActorUserID: actorID,
		})
		if err != nil {
			return stats, err
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	return stats, nil
}

// usersParser upserts operator accounts by username (the sheet's first name)
// and attaches the comma-separated roles.
type usersParser struct {
	deps *Dependencies
}

func (p *usersParser) Name() string { return "users" }

func (p *usersParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	actorID, err := ensureSuperadmin(ctx, tx, p.deps)
	if err != nil {
		return stats, err
	}

	for _, row := range sheet.Rows() {
		username, ok := row.TrimString("first_name")
		if !ok {
			stats.Skipped++
			continue
		}
		first, _ := row.TrimString("first_name")
		middle, _ := row.TrimString("middle_name")
		last, _ := row.TrimString("last_name")
		email, _ := row.TrimString("email_address")
		password, _ := row.TrimString("password")
		roleNames := splitRoles(row)

		_, created, err := p.deps.Users.UpsertUser(ctx, tx, users.UserInput{
			Username:    username,
			Email:       email,
			FullName:    joinName(first, middle, last),
			Password:    password,
			RoleNames:   roleNames,
			ActorUserID: actorID,
		})
		if err != nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "username", username), "user row rejected, skipped")
			stats.Skipped++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	return stats, nil
}

func splitRoles(row seeder.Row) []string {
	raw, ok := row.TrimString("roles")
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}

// caseTypeParser is insert-only by name.
type caseTypeParser struct {
	deps *Dependencies
}

func (p *caseTypeParser) Name() string { return "CaseTypes" }

func (p *caseTypeParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		name, nameOK := row.TrimString("name")
		prefix, prefixOK := row.TrimString("prefix")
		if !nameOK || !prefixOK {
			stats.Skipped++
			continue
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&models.CaseType{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return stats, err
		}
		if count > 0 {
			stats.Skipped++
			continue
		}

		caseType := models.CaseType{
			Name:   name,
			Prefix: prefix,
			Audit:  models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if value, ok := row.TrimString("description"); ok {
			caseType.Description = &value
		}
		if err := tx.WithContext(ctx).Create(&caseType).Error; err != nil {
			return stats, err
		}
		stats.Created++
	}
	return stats, nil
}

// caseStatusParser upserts statuses by name.
type caseStatusParser struct {
	deps *Dependencies
}

func (p *caseStatusParser) Name() string { return "CaseStatus" }

func (p *caseStatusParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		name, ok := row.TrimString("name")
		if !ok {
			stats.Skipped++
			continue
		}

		var existing models.CaseStatus
		err := tx.WithContext(ctx).Where("name = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			status := models.CaseStatus{
				Name:  name,
				Audit: models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if err := tx.WithContext(ctx).Create(&status).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&existing).Update("modified_by", p.deps.ActorUserID).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// caseStepParser upserts steps by name; the owning case type is mandatory.
type caseStepParser struct {
	deps *Dependencies
}

func (p *caseStepParser) Name() string { return "CaseStep" }

func (p *caseStepParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		prefix, prefixOK := row.TrimString("case_type_prefix")
		name, nameOK := row.TrimString("name")
		if !prefixOK || !nameOK {
			stats.Skipped++
			continue
		}

		caseType, err := findCaseTypeByPrefix(ctx, tx, prefix)
		if err != nil {
			return stats, err
		}
		if caseType == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "prefix", prefix), "case type not found for step, skipped")
			stats.Skipped++
			continue
		}

		weight, _ := row.Int("weight")

		var existing models.CaseStep
		err = tx.WithContext(ctx).Where("name = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			step := models.CaseStep{
				Name:       name,
				Weight:     weight,
				CaseTypeID: &caseType.ID,
				Audit:      models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if err := tx.WithContext(ctx).Create(&step).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&existing).Updates(map[string]any{
			"weight":       weight,
			"case_type_id": caseType.ID,
			"modified_by":  p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// caseStepConfigParser upserts step routing by the sheet's numeric step id.
// The step and case type must resolve; a named next assignee must too.
type caseStepConfigParser struct {
	deps *Dependencies
}

func (p *caseStepConfigParser) Name() string { return "CaseStepConfig" }

func (p *caseStepConfigParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		stepName, stepNameOK := row.TrimString("case_step_name")
		prefix, prefixOK := row.TrimString("case_type_prefix")
		stepID, stepIDOK := row.Int64("step_id")
		if !stepNameOK || !prefixOK || !stepIDOK {
			stats.Skipped++
			continue
		}

		var caseStep models.CaseStep
		err := tx.WithContext(ctx).Where("name = ?", stepName).First(&caseStep).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "case_step", stepName), "case step not found for config, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		caseType, err := findCaseTypeByPrefix(ctx, tx, prefix)
		if err != nil {
			return stats, err
		}
		if caseType == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "prefix", prefix), "case type not found for config, skipped")
			stats.Skipped++
			continue
		}

		var nextAssigneeID *int64
		if assignee, ok := row.TrimString("next_assignee_name"); ok {
			user, err := p.deps.Users.FindByUsername(ctx, tx, assignee)
			if err != nil {
				return stats, err
			}
			if user == nil {
				p.deps.Log.Warn(p.deps.Log.WithField(ctx, "assignee", assignee), "next assignee not found, skipped")
				stats.Skipped++
				continue
			}
			nextAssigneeID = &user.ID
		}

		nextStepID := ""
		if value, ok := row.Int64("next_step_id"); ok {
			nextStepID = strconv.FormatInt(value, 10)
		}
		displayName, _ := row.TrimString("step_name")

		var config models.CaseStepConfig
		err = tx.WithContext(ctx).Where("step_id = ?", stepID).First(&config).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			config = models.CaseStepConfig{
				StepID:         stepID,
				CaseStepID:     &caseStep.ID,
				CaseTypeID:     &caseType.ID,
				NextStepID:     &nextStepID,
				NextAssigneeID: nextAssigneeID,
				Audit:          models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if displayName != "" {
				config.StepName = &displayName
			}
			if err := tx.WithContext(ctx).Create(&config).Error; err != nil {
				return stats, err
			}
			stats.Created++
		case err != nil:
			return stats, err
		default:
			updates := map[string]any{
				"case_step_id": caseStep.ID,
				"case_type_id": caseType.ID,
				"next_step_id": nextStepID,
				"modified_by":  p.deps.ActorUserID,
			}
			if nextAssigneeID != nil {
				updates["next_assignee_id"] = *nextAssigneeID
			} else {
				updates["next_assignee_id"] = nil
			}
			if err := tx.WithContext(ctx).Model(&config).Updates(updates).Error; err != nil {
				return stats, err
			}
			stats.Updated++
		}

		roles, err := resolveRoles(ctx, tx, splitRoleList(row))
		if err != nil {
			return stats, err
		}
		if err := tx.WithContext(ctx).Model(&config).Association("Roles").Replace(roles); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func splitRoleList(row seeder.Row) []string {
	raw, ok := row.TrimString("user_roles")
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func resolveRoles(ctx context.Context, tx *gorm.DB, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		var role models.Role
		err := tx.WithContext(ctx).Where("name = ?", name).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// caseStepConfigFilesParser upserts the schema path per step config, found by
// the step's display name. A blank schema clears the path.
type caseStepConfigFilesParser struct {
	deps *Dependencies
}

func (p *caseStepConfigFilesParser) Name() string { return "CaseStepConfigFiles" }

func (p *caseStepConfigFilesParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		stepName, ok := row.TrimString("step_name")
		if !ok {
			stats.Skipped++
			continue
		}

		var config models.CaseStepConfig
		err := tx.WithContext(ctx).Where("step_name = ?", stepName).First(&config).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "step_name", stepName), "step config not found for path, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		path, _ := row.TrimString("schema_name")

		var existing models.CaseStepConfigPath
		err = tx.WithContext(ctx).Where("case_step_config_id = ?", config.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			record := models.CaseStepConfigPath{
				CaseStepConfigID: config.ID,
				Path:             path,
				Audit:            models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&existing).Updates(map[string]any{
			"path":        path,
			"modified_by": p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// caseFirstStepParser records each case type's entry step, resolved through
// the numeric step id of its config row.
type caseFirstStepParser struct {
	deps *Dependencies
}

func (p *caseFirstStepParser) Name() string { return "CaseFirstStepConfig" }

func (p *caseFirstStepParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		prefix, prefixOK := row.TrimString("prefix")
		firstStep, firstStepOK := row.Int64("first_step")
		if !prefixOK || !firstStepOK {
			stats.Skipped++
			continue
		}

		caseType, err := findCaseTypeByPrefix(ctx, tx, prefix)
		if err != nil {
			return stats, err
		}
		if caseType == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "prefix", prefix), "case type not found for first step, skipped")
			stats.Skipped++
			continue
		}

		var config models.CaseStepConfig
		err = tx.WithContext(ctx).Where("step_id = ?", firstStep).First(&config).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "step_id", firstStep), "step config not found for first step, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		var existing models.CaseTypeFirstStep
		err = tx.WithContext(ctx).Where("case_type_id = ?", caseType.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			record := models.CaseTypeFirstStep{
				CaseTypeID:       caseType.ID,
				CaseStepConfigID: config.ID,
				Audit:            models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&existing).Updates(map[string]any{
			"case_step_config_id": config.ID,
			"modified_by":         p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func findCaseTypeByPrefix(ctx context.Context, tx *gorm.DB, prefix string) (*models.CaseType, error) {
	var caseType models.CaseType
	err := tx.WithContext(ctx).Where("prefix = ?", prefix).First(&caseType).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &caseType, nil
}
