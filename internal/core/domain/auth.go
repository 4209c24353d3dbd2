package domain

import "time"

// Scope identifies an independently authenticated permission set.
type Scope string

const (
	// ScopeDefault grants access to the primary profile API.
	ScopeDefault Scope = "default"
	// ScopeManagement grants access to the management API.
	ScopeManagement Scope = "management"
	// ScopeWorkflow grants access to the workflow API.
	ScopeWorkflow Scope = "workflow"
)

// AllScopes returns every supported scope.
func AllScopes() []Scope {
	return []Scope{ScopeDefault, ScopeManagement, ScopeWorkflow}
}

// Permissions returns the scope list sent with the credential exchange.
// The default scope sends none and receives the service's default grant.
func (s Scope) Permissions() []string {
	switch s {
	case ScopeManagement:
		return []string{"ArxManagement"}
	case ScopeWorkflow:
		return []string{"ArxWorkflow"}
	default:
		return nil
	}
}

// IsValid reports whether s is a known scope.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeDefault, ScopeManagement, ScopeWorkflow:
		return true
	}
	return false
}

// Credentials are exchanged for a scoped token.
type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	// ImpersonateUserID, when set, requests a token acting as another user.
	ImpersonateUserID *int64
}

// Token is a scoped bearer credential.
type Token struct {
	Scope        Scope
	AccessToken  string
	RefreshToken string
	ObtainedAt   time.Time
}

// Identity is the user a scope's token acts as.
type Identity struct {
	Scope       Scope
	UserID      int64
	Username    string
	DisplayName string
	// AOO is the user's default business unit.
	AOO string
}
