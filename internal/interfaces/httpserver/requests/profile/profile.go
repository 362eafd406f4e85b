// Package profile contains request DTOs for the profile endpoints.
package profile

import (
	domainprofile "github.com/janhq/aura-server/internal/domain/profile"
)

// UpdateProfileRequest edits display fields. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=64"`
	Bio         *string `json:"bio" binding:"omitempty,max=280"`
	Status      *string `json:"status" binding:"omitempty,max=140"`
}

func (r UpdateProfileRequest) ToEdit() domainprofile.ProfileEdit {
	return domainprofile.ProfileEdit{DisplayName: r.DisplayName, Bio: r.Bio, Status: r.Status}
}

// UpdatePrivacyRequest changes privacy toggles. Omitted toggles are left unchanged.
type UpdatePrivacyRequest struct {
	PrivateMode  *bool `json:"privateMode"`
	StealthMode  *bool `json:"stealthMode"`
	LinkWarning  *bool `json:"linkWarning"`
	ReadReceipts *bool `json:"readReceipts"`
}

func (r UpdatePrivacyRequest) ToPatch() domainprofile.PrivacyPatch {
	return domainprofile.PrivacyPatch{
		PrivateMode:  r.PrivateMode,
		StealthMode:  r.StealthMode,
		LinkWarning:  r.LinkWarning,
		ReadReceipts: r.ReadReceipts,
	}
}
