package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/models"
	apperrors "github.com/hypersenta/backend/pkg/errors"
)

var (
	// ErrOrganizationNotFound indicates the requested organization does not exist.
	ErrOrganizationNotFound = apperrors.New("ORGANIZATION_NOT_FOUND", "Organization not found", http.StatusNotFound)
	// ErrMemberNotFound indicates the user is not a member of the organization.
	ErrMemberNotFound = apperrors.New("ORGANIZATION_MEMBER_NOT_FOUND", "Organization member not found", http.StatusNotFound)
	// ErrAlreadyMember indicates the user already belongs to the organization.
	ErrAlreadyMember = apperrors.New("ORGANIZATION_MEMBER_EXISTS", "User is already a member of this organization", http.StatusConflict)
)

// CreateOrganizationInput describes the fields accepted when creating an organization.
type CreateOrganizationInput struct {
	Name        string
	Description string
	Settings    datatypes.JSON
}

// UpdateOrganizationInput enumerates mutable organization attributes.
type UpdateOrganizationInput struct {
	Name        *string
	Description *string
	Settings    datatypes.JSON
}

// OrganizationService manages organizations and their memberships.
type OrganizationService struct {
	db *gorm.DB
}

// NewOrganizationService constructs an OrganizationService instance.
func NewOrganizationService(db *gorm.DB) (*OrganizationService, error) {
	if db == nil {
		return nil, errors.New("organization service: db is required")
	}
	return &OrganizationService{db: db}, nil
}

// Create provisions a new organization and enrolls the creator as its admin.
func (s *OrganizationService) Create(ctx context.Context, creatorUUID string, input CreateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("organization name is required")
	}

	org := &models.Organization{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Settings:    input.Settings,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("organization service: create organization: %w", err)
		}

		if creatorUUID == "" {
			return nil
		}

		member := &models.OrganizationMember{
			OrganizationID: org.UUID,
			UserID:         creatorUUID,
			Role:           "admin",
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("organization service: enroll creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

// GetByUUID loads an organization by external identifier.
func (s *OrganizationService) GetByUUID(ctx context.Context, uuid string) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "uuid = ?", uuid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: get organization: %w", err)
	}
	return &org, nil
}

// ListForUser retrieves the organizations the given user belongs to.
func (s *OrganizationService) ListForUser(ctx context.Context, userUUID string) ([]models.Organization, error) {
	ctx = ensureContext(ctx)

	var orgs []models.Organization
	err := s.db.WithContext(ctx).
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.uuid").
		Where("organization_members.user_id = ?", userUUID).
		Order("organizations.created_at DESC").
		Find(&orgs).Error
	if err != nil {
		return nil, fmt.Errorf("organization service: list organizations: %w", err)
	}
	return orgs, nil
}

// Update persists mutable attributes for an existing organization.
func (s *OrganizationService) Update(ctx context.Context, uuid string, input UpdateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "uuid = ?", uuid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: load organization: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Settings != nil {
		updates["settings"] = input.Settings
	}

	if len(updates) == 0 {
		return &org, nil
	}

	if err := s.db.WithContext(ctx).Model(&org).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("organization service: update organization: %w", err)
	}

	return &org, nil
}

// Delete removes an organization together with its memberships.
func (s *OrganizationService) Delete(ctx context.Context, uuid string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org models.Organization
		err := tx.First(&org, "uuid = ?", uuid).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		if err != nil {
			return fmt.Errorf("organization service: load organization: %w", err)
		}

		if err := tx.Where("organization_id = ?", org.UUID).Delete(&models.OrganizationMember{}).Error; err != nil {
			return fmt.Errorf("organization service: delete memberships: %w", err)
		}
		if err := tx.Delete(&org).Error; err != nil {
			return fmt.Errorf("organization service: delete organization: %w", err)
		}
		return nil
	})
}

// AddMember enrolls a user into an organization with the given role.
func (s *OrganizationService) AddMember(ctx context.Context, orgUUID, userUUID, role string) (*models.OrganizationMember, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetByUUID(ctx, orgUUID); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "uuid = ?", userUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: load user: %w", err)
	}

	role = strings.TrimSpace(role)
	if role == "" {
		role = "member"
	}

	member := &models.OrganizationMember{
		OrganizationID: orgUUID,
		UserID:         userUUID,
		Role:           role,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("organization service: add member: %w", err)
	}

	member.User = &user
	return member, nil
}

// ListMembers retrieves the memberships of an organization including user profiles.
func (s *OrganizationService) ListMembers(ctx context.Context, orgUUID string) ([]models.OrganizationMember, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetByUUID(ctx, orgUUID); err != nil {
		return nil, err
	}

	var members []models.OrganizationMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgUUID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("organization service: list members: %w", err)
	}
	return members, nil
}

// UpdateMemberRole changes the role of an existing membership.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, orgUUID, userUUID, role string) error {
	ctx = ensureContext(ctx)

	role = strings.TrimSpace(role)
	if role == "" {
		return apperrors.NewBadRequest("role is required")
	}

	result := s.db.WithContext(ctx).Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgUUID, userUUID).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("organization service: update member role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// RemoveMember withdraws a user from an organization.
func (s *OrganizationService) RemoveMember(ctx context.Context, orgUUID, userUUID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgUUID, userUUID).
		Delete(&models.OrganizationMember{})
	if result.Error != nil {
		return fmt.Errorf("organization service: remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// IsMember reports whether the user belongs to the organization.
func (s *OrganizationService) IsMember(ctx context.Context, orgUUID, userUUID string) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgUUID, userUUID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("organization service: check membership: %w", err)
	}
	return count > 0, nil
}
