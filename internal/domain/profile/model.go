package profile

import "strings"

// Feature names one AI protocol toggle.
type Feature string

const (
	FeatureToxicClassifier      Feature = "toxicClassifier"
	FeatureFaceEmotionDetection Feature = "faceEmotionDetection"
	FeaturePhishingSentinel     Feature = "phishingSentinel"
	FeatureOracleVoice          Feature = "oracleVoice"
)

// EmotionUndefined is the placeholder emotion used when no determination is possible.
const EmotionUndefined = "Undefined"

// DefaultWorkspaceIcon is applied to workspaces created without an icon.
const DefaultWorkspaceIcon = "Squares2X2Icon"

// Palette is the set of display colors offered for workspaces and groups.
var Palette = []string{"#3b82f6", "#6366f1", "#10b981", "#f43f5e", "#f59e0b", "#8b5cf6", "#ec4899", "#06b6d4"}

// AIFeatures is the per-user AI protocol configuration.
type AIFeatures struct {
	ToxicClassifier      bool `json:"toxicClassifier" yaml:"toxicClassifier"`
	FaceEmotionDetection bool `json:"faceEmotionDetection" yaml:"faceEmotionDetection"`
	PhishingSentinel     bool `json:"phishingSentinel" yaml:"phishingSentinel"`
	OracleVoice          bool `json:"oracleVoice" yaml:"oracleVoice"`
}

// DefaultAIFeatures is the configuration assumed when none is set: everything on.
func DefaultAIFeatures() AIFeatures {
	return AIFeatures{
		ToxicClassifier:      true,
		FaceEmotionDetection: true,
		PhishingSentinel:     true,
		OracleVoice:          true,
	}
}

// Toggle flips one feature. It reports false for an unknown feature name.
func (f *AIFeatures) Toggle(feature Feature) bool {
	switch feature {
	case FeatureToxicClassifier:
		f.ToxicClassifier = !f.ToxicClassifier
	case FeatureFaceEmotionDetection:
		f.FaceEmotionDetection = !f.FaceEmotionDetection
	case FeaturePhishingSentinel:
		f.PhishingSentinel = !f.PhishingSentinel
	case FeatureOracleVoice:
		f.OracleVoice = !f.OracleVoice
	default:
		return false
	}
	return true
}

// Workspace is a user-defined tag used to partition chat sessions.
type Workspace struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

// User is the identity/profile record. Optional fields are omitted when empty.
type User struct {
	ID          string      `json:"id" yaml:"id"`
	Username    string      `json:"username" yaml:"username"`
	DisplayName string      `json:"displayName" yaml:"displayName"`
	Avatar      string      `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	IsPrivate   bool        `json:"isPrivate" yaml:"isPrivate"`
	Status      string      `json:"status,omitempty" yaml:"status,omitempty"`
	Bio         string      `json:"bio,omitempty" yaml:"bio,omitempty"`
	Email       string      `json:"email,omitempty" yaml:"email,omitempty"`
	Phone       string      `json:"phone,omitempty" yaml:"phone,omitempty"`
	Emotion     string      `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	AIFeatures  *AIFeatures `json:"aiFeatures,omitempty" yaml:"aiFeatures,omitempty"`
	Workspaces  []Workspace `json:"workspaces,omitempty" yaml:"workspaces,omitempty"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.AIFeatures != nil {
		features := *u.AIFeatures
		out.AIFeatures = &features
	}
	if u.Workspaces != nil {
		out.Workspaces = append([]Workspace(nil), u.Workspaces...)
	}
	return &out
}

// Features returns the configured features or the all-on default.
func (u *User) Features() AIFeatures {
	if u.AIFeatures == nil {
		return DefaultAIFeatures()
	}
	return *u.AIFeatures
}

// HasWorkspace reports whether id names one of the user's workspaces.
func (u *User) HasWorkspace(id string) bool {
	for _, ws := range u.Workspaces {
		if ws.ID == id {
			return true
		}
	}
	return false
}

// Privacy holds the profile privacy toggles.
type Privacy struct {
	PrivateMode  bool `json:"privateMode"`
	StealthMode  bool `json:"stealthMode"`
	LinkWarning  bool `json:"linkWarning"`
	ReadReceipts bool `json:"readReceipts"`
}

// DefaultPrivacy returns the toggles shown for u: private mode mirrors IsPrivate,
// stealth off, link warnings and read receipts on.
func DefaultPrivacy(u *User) Privacy {
	p := Privacy{LinkWarning: true, ReadReceipts: true}
	if u != nil {
		p.PrivateMode = u.IsPrivate
	}
	return p
}

// PrivacyPatch carries privacy toggles to change. Nil fields are left unchanged.
type PrivacyPatch struct {
	PrivateMode  *bool `json:"privateMode,omitempty"`
	StealthMode  *bool `json:"stealthMode,omitempty"`
	LinkWarning  *bool `json:"linkWarning,omitempty"`
	ReadReceipts *bool `json:"readReceipts,omitempty"`
}

// Apply returns p with the non-nil fields of patch written over it.
func (patch PrivacyPatch) Apply(p Privacy) Privacy {
	if patch.PrivateMode != nil {
		p.PrivateMode = *patch.PrivateMode
	}
	if patch.StealthMode != nil {
		p.StealthMode = *patch.StealthMode
	}
	if patch.LinkWarning != nil {
		p.LinkWarning = *patch.LinkWarning
	}
	if patch.ReadReceipts != nil {
		p.ReadReceipts = *patch.ReadReceipts
	}
	return p
}

// AIFeaturesPatch carries the setup wizard choices. Nil fields keep the starting value.
type AIFeaturesPatch struct {
	ToxicClassifier      *bool `json:"toxicClassifier,omitempty"`
	FaceEmotionDetection *bool `json:"faceEmotionDetection,omitempty"`
	PhishingSentinel     *bool `json:"phishingSentinel,omitempty"`
	OracleVoice          *bool `json:"oracleVoice,omitempty"`
}

// Apply returns f with the non-nil fields of patch written over it.
func (patch AIFeaturesPatch) Apply(f AIFeatures) AIFeatures {
	if patch.ToxicClassifier != nil {
		f.ToxicClassifier = *patch.ToxicClassifier
	}
	if patch.FaceEmotionDetection != nil {
		f.FaceEmotionDetection = *patch.FaceEmotionDetection
	}
	if patch.PhishingSentinel != nil {
		f.PhishingSentinel = *patch.PhishingSentinel
	}
	if patch.OracleVoice != nil {
		f.OracleVoice = *patch.OracleVoice
	}
	return f
}

// ProfileEdit carries the editable display fields. Nil fields are left unchanged.
type ProfileEdit struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Apply writes the non-nil fields of e onto u.
func (e ProfileEdit) Apply(u *User) {
	if e.DisplayName != nil {
		u.DisplayName = *e.DisplayName
	}
	if e.Bio != nil {
		u.Bio = *e.Bio
	}
	if e.Status != nil {
		u.Status = *e.Status
	}
}

// NormalizeUsername lower-cases a handle and strips all whitespace.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), ""))
}
