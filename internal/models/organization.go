package models

import "gorm.io/datatypes"

// Organization groups users for billing and collaboration purposes.
type Organization struct {
	BaseModel

	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `json:"description"`
	Settings    datatypes.JSON `json:"settings"`

	Members []OrganizationMember `gorm:"foreignKey:OrganizationID;references:UUID" json:"members,omitempty"`
}

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	BaseModel

	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex:idx_org_members_org_user" json:"organization_id"`
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_org_members_org_user" json:"user_id"`
	Role           string `gorm:"type:varchar(32);default:'member'" json:"role"`

	User *User `gorm:"foreignKey:UserID;references:UUID" json:"user,omitempty"`
}
