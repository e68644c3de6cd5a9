// Package model defines the persisted entities of the blog API: users, blog
// posts and verification requests.
package model

import (
	"database/sql/driver"

	"blogapi/util/common"

	"github.com/goccy/go-json"
)

// Role is a permission level attached to a user account.
type Role string

const (
	RoleUser       Role = "ROLE_USER"
	RoleBlogger    Role = "ROLE_BLOGGER"
	RoleAdmin      Role = "ROLE_ADMIN"
	RoleSuperAdmin Role = "ROLE_SUPER_ADMIN"
)

// roleRank is the precomputed role hierarchy: a capability check passes when
// the highest held rank meets the required rank. String matching against the
// raw role set is reserved for the base-role check on verification requests.
var roleRank = map[Role]int{
	RoleUser:       0,
	RoleBlogger:    1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Rank returns the position of r in the role hierarchy, -1 for unknown roles.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// RoleList is a role set stored as a serialized JSON list column.
type RoleList []Role

// Value implements driver.Valuer.
func (l RoleList) Value() (driver.Value, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *RoleList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return common.NewErrorf("cannot scan %T into RoleList", value)
	}
}

// User is a registered account. Credentials are held as a bcrypt hash; the
// raw password never persists.
type User struct {
	Id        int      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null"`
	Password  string   `json:"-" gorm:"not null"`
	FirstName string   `json:"firstName" gorm:"not null"`
	LastName  string   `json:"lastName" gorm:"not null"`
	Roles     RoleList `json:"roles" gorm:"type:text"`
	Created   int64    `json:"created" gorm:"not null"`

	BlogPosts            []BlogPost            `json:"-" gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
	VerificationRequests []VerificationRequest `json:"-" gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
}

// GetRoles returns the effective role set. Every account holds at least the
// base role, even when the stored set was cleared.
func (u *User) GetRoles() RoleList {
	if len(u.Roles) == 0 {
		return RoleList{RoleUser}
	}
	return u.Roles
}

// MarshalJSON serializes the effective role set, so a cleared role set never
// surfaces as empty on the API.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	a := alias(u)
	a.Roles = u.GetRoles()
	return json.Marshal(a)
}

// HasRole reports whether the effective role set contains exactly role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.GetRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// MaxRank returns the highest rank among the effective roles.
func (u *User) MaxRank() int {
	max := -1
	for _, r := range u.GetRoles() {
		if rank := r.Rank(); rank > max {
			max = rank
		}
	}
	return max
}

// IsAdmin reports whether the user holds the admin rank or above.
func (u *User) IsAdmin() bool {
	return u.MaxRank() >= RoleAdmin.Rank()
}

// IsSuperAdmin reports whether the user holds the super admin role.
func (u *User) IsSuperAdmin() bool {
	return u.MaxRank() >= RoleSuperAdmin.Rank()
}

// BlogPost is authored content owned by a single user. The owner is fixed at
// creation.
type BlogPost struct {
	Id      int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content" gorm:"type:text;not null"`
	Created int64  `json:"created" gorm:"not null"`
	OwnerId int    `json:"ownerId" gorm:"not null;index"`
	Owner   *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerId"`
}

// VerificationStatus is the state of a verification request.
type VerificationStatus string

const (
	StatusRequested VerificationStatus = "requested"
	StatusApproved  VerificationStatus = "approved"
	StatusDeclined  VerificationStatus = "declined"
)

// VerificationRequest is an identity-verification submission. Status starts
// as requested and moves one way to approved or declined.
type VerificationRequest struct {
	Id              int                `json:"id" gorm:"primaryKey;autoIncrement"`
	Status          VerificationStatus `json:"status" gorm:"not null;index"`
	PidImage        string             `json:"pidImage" gorm:"not null"`
	RejectionReason string             `json:"rejectionReason,omitempty" gorm:"type:text"`
	Created         int64              `json:"created" gorm:"not null"`
	OwnerId         int                `json:"ownerId" gorm:"not null;index"`
	Owner           *User              `json:"owner,omitempty" gorm:"foreignKey:OwnerId"`
}

// IsOpen reports whether the request is still awaiting review.
func (v *VerificationRequest) IsOpen() bool {
	return v.Status == StatusRequested
}

// IsApproved reports whether the request reached the approved state.
func (v *VerificationRequest) IsApproved() bool {
	return v.Status == StatusApproved
}

// IsDeclined reports whether the request reached the declined state.
func (v *VerificationRequest) IsDeclined() bool {
	return v.Status == StatusDeclined
}
