package dto

import (
	"time"

	"github.com/famshare/family_budget_app/internal/core/domain"
)

// CreateFamilyRequest defines the payload for creating a family.
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	// Timezone is an IANA zone name used for month-tag computation.
	// Optional; defaults to UTC.
	Timezone string `json:"timezone"`
}

// JoinFamilyRequest defines the payload for joining a family by code.
type JoinFamilyRequest struct {
	JoinCode string `json:"joinCode" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=MEMBER CHILD"`
}

// AddMemberRequest defines the payload for an admin adding a user directly.
type AddMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER CHILD"`
}

// FamilyResponse defines the family data returned by the API.
type FamilyResponse struct {
	FamilyID string `json:"familyID"`
	Name     string `json:"name"`
	JoinCode string `json:"joinCode"`
	Timezone string `json:"timezone"`
}

// FamilyMemberResponse defines membership data returned by the API.
type FamilyMemberResponse struct {
	UserID   string    `json:"userID"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ToFamilyResponse converts a domain.Family to FamilyResponse.
func ToFamilyResponse(f *domain.Family) FamilyResponse {
	return FamilyResponse{
		FamilyID: f.FamilyID,
		Name:     f.Name,
		JoinCode: f.JoinCode,
		Timezone: f.Timezone,
	}
}

// ToFamilyMemberResponses converts memberships to response DTOs.
func ToFamilyMemberResponses(members []domain.UserFamily) []FamilyMemberResponse {
	out := make([]FamilyMemberResponse, len(members))
	for i, m := range members {
		out[i] = FamilyMemberResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
	}
	return out
}
