package domain

import "time"

// UserFamilyRole defines the role a user holds within a family.
type UserFamilyRole string

const (
	RoleAdmin  UserFamilyRole = "ADMIN"
	RoleMember UserFamilyRole = "MEMBER"
	RoleChild  UserFamilyRole = "CHILD"
)

// Family is the tenancy boundary; every budget, category and transaction is
// scoped to exactly one family.
type Family struct {
	FamilyID string `json:"familyID"`
	Name     string `json:"name"`
	// JoinCode is the short shareable code other members use to join.
	JoinCode string `json:"joinCode"`
	// Timezone is an IANA zone name. Month tags for budget resets are
	// computed in this zone. Defaults to UTC.
	Timezone string `json:"timezone"`
	AuditFields
}

// UserFamily links a user to a family with a role.
type UserFamily struct {
	UserID   string         `json:"userID"`
	FamilyID string         `json:"familyID"`
	Role     UserFamilyRole `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`
}
