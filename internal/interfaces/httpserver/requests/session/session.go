// Package session contains request DTOs for the session endpoints.
package session

import (
	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/profile"
	domainsession "github.com/janhq/aura-server/internal/domain/session"
)

// SignupStepRequest carries the fields of the current signup step.
type SignupStepRequest struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

func (r SignupStepRequest) ToInput() domainsession.SignupInput {
	return domainsession.SignupInput{
		Phone:       r.Phone,
		Email:       r.Email,
		Code:        r.Code,
		Username:    r.Username,
		Avatar:      r.Avatar,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
	}
}

// LoginStepRequest carries the fields of the current login step.
type LoginStepRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

func (r LoginStepRequest) ToInput() domainsession.LoginInput {
	return domainsession.LoginInput{Identifier: r.Identifier, Code: r.Code}
}

// SetupRequest carries the AI setup wizard choices. Omitted features keep their default.
type SetupRequest struct {
	ToxicClassifier      *bool `json:"toxicClassifier"`
	FaceEmotionDetection *bool `json:"faceEmotionDetection"`
	PhishingSentinel     *bool `json:"phishingSentinel"`
	OracleVoice          *bool `json:"oracleVoice"`
}

func (r SetupRequest) ToPatch() profile.AIFeaturesPatch {
	return profile.AIFeaturesPatch{
		ToxicClassifier:      r.ToxicClassifier,
		FaceEmotionDetection: r.FaceEmotionDetection,
		PhishingSentinel:     r.PhishingSentinel,
		OracleVoice:          r.OracleVoice,
	}
}

// CameraErrorRequest reports a camera failure observed by the client.
type CameraErrorRequest struct {
	Reason camera.Reason `json:"reason" binding:"required,oneof=permission_denied hardware"`
	Detail string        `json:"detail"`
}
