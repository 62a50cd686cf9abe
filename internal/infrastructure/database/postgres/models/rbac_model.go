package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleModel represents the database model for Role. The audit columns are
// named CreatedBy/ModifiedBy so gorm resolves them as belongs-to users rather
// than matching users.creator_id.
type RoleModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoleName    string     `gorm:"column:role_name;type:varchar(50);not null;uniqueIndex:idx_roles_role_name"`
	RoleCode    string     `gorm:"column:role_code;type:varchar(50);not null;uniqueIndex:idx_roles_role_code"`
	Description *string    `gorm:"type:text"`
	Permissions JSONMap    `gorm:"type:jsonb"`
	IsSystem    bool       `gorm:"not null;default:false"`
	IsActive    bool       `gorm:"not null;index:idx_roles_is_active"`
	IsDeleted   bool       `gorm:"not null;default:false"`
	CreatedBy   *uuid.UUID `gorm:"column:creator_id;type:uuid"`
	Creator     *UserModel `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	ModifiedBy  *uuid.UUID `gorm:"column:modifier_id;type:uuid"`
	Modifier    *UserModel `gorm:"foreignKey:ModifiedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	DeletedAt   *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (RoleModel) TableName() string {
	return "roles"
}

func (m *RoleModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PermissionModel represents the database model for Permission
type PermissionModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PermissionName string     `gorm:"column:permission_name;type:varchar(100);not null;uniqueIndex:idx_permissions_permission_name"`
	PermissionCode string     `gorm:"column:permission_code;type:varchar(100);not null;uniqueIndex:idx_permissions_permission_code"`
	Description    *string    `gorm:"type:text"`
	Module         *string    `gorm:"type:varchar(50);index:idx_permissions_module"`
	Action         *string    `gorm:"type:varchar(50)"`
	Resource       *string    `gorm:"type:varchar(100)"`
	IsSystem       bool       `gorm:"not null;default:false"`
	IsActive       bool       `gorm:"not null;index:idx_permissions_is_active"`
	IsDeleted      bool       `gorm:"not null;default:false"`
	CreatedBy      *uuid.UUID `gorm:"column:creator_id;type:uuid"`
	Creator        *UserModel `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	ModifiedBy     *uuid.UUID `gorm:"column:modifier_id;type:uuid"`
	Modifier       *UserModel `gorm:"foreignKey:ModifiedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	DeletedAt      *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (PermissionModel) TableName() string {
	return "permissions"
}

func (m *PermissionModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRoleModel links users to roles
type UserRoleModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_composite,priority:1"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RoleID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_composite,priority:2;index:idx_user_roles_role_id"`
	Role      *RoleModel `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IsActive  bool       `gorm:"not null"`
	IsDeleted bool       `gorm:"not null;default:false"`
	DeletedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserRoleModel) TableName() string {
	return "user_roles"
}

func (m *UserRoleModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RolePermissionModel links roles to permissions. Deletes against this table
// are recorded as soft deletes.
type RolePermissionModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RoleID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_role_permissions_composite,priority:1"`
	Role         *RoleModel       `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PermissionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_role_permissions_composite,priority:2;index:idx_role_permissions_permission_id"`
	Permission   *PermissionModel `gorm:"foreignKey:PermissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IsActive     bool             `gorm:"not null"`
	IsDeleted    bool             `gorm:"not null;default:false"`
	DeletedAt    *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

func (m *RolePermissionModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (RolePermissionModel) SoftDeleteOnly() {}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&RoleModel{},
		&PermissionModel{},
		&UserRoleModel{},
		&RolePermissionModel{},
		&TokenModel{},
		&OtpTokenModel{},
	}
}
