package models

import (
	"strings"
	"time"

	"github.com/hypersenta/backend/pkg/phone"
)

// User represents an account holder.
type User struct {
	BaseModel

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	FullName  string `gorm:"index;not null" json:"full_name"`

	Email  string  `gorm:"uniqueIndex;not null" json:"email"`
	Mobile *string `gorm:"uniqueIndex" json:"mobile,omitempty"`

	// NationalMobileNumber is derived from Mobile and never accepted from
	// clients. Derivation is best-effort: an unparseable mobile number leaves
	// it empty rather than failing the write.
	NationalMobileNumber string `json:"national_mobile_number"`

	Password string `gorm:"not null" json:"-"`

	IsActive    bool `gorm:"default:false" json:"is_active"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`

	LastLogin *time.Time `json:"last_login"`

	// Denormalized convenience fields referencing the organization the user
	// last acted in.
	LastUsedOrganizationID   *string `gorm:"type:uuid" json:"last_used_organization_id"`
	LastUsedOrganizationName *string `json:"last_used_organization_name"`
}

// Normalize recomputes the derived fields from their inputs. It runs as an
// explicit step after raw input assembly so derivation order never depends on
// field declaration order.
func (u *User) Normalize() {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.FirstName != "" && u.LastName != "" {
		u.FullName = u.FirstName + " " + u.LastName
	}

	if u.Mobile == nil {
		return
	}

	trimmed := strings.TrimSpace(*u.Mobile)
	if trimmed == "" {
		u.Mobile = nil
		return
	}
	u.Mobile = &trimmed

	if national, ok := phone.NationalFormat(trimmed); ok {
		u.NationalMobileNumber = national
	} else {
		u.NationalMobileNumber = ""
	}
}
