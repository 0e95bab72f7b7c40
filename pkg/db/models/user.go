package models

// User represents a back-office operator account.
type User struct {
	ID           int64   `gorm:"primaryKey"`
	Username     string  `gorm:"column:username;not null;uniqueIndex:ux_users_username"`
	Email        *string `gorm:"column:email"`
	FullName     *string `gorm:"column:full_name"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	IsActive     bool    `gorm:"column:is_active;not null;default:true"`
	Audit

	Roles []Role `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// Role is an access role attachable to users and case step configs.
type Role struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"column:name;not null;uniqueIndex:ux_roles_name"`
	Description *string `gorm:"column:description"`
	IsActive    bool    `gorm:"column:is_active;not null;default:true"`
	Audit
}
