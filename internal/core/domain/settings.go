package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default connection tuning values.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 20
	DefaultTimeout           = 30 * time.Second
)

// ConnectionSettings hold everything needed to reach the remote service.
type ConnectionSettings struct {
	APIURL        string
	ManagementURL string
	WorkflowURL   string

	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// AOO is the business unit (area organizzativa omogenea) searches run in.
	AOO string

	// ImpersonateUserID requests tokens acting as another user.
	ImpersonateUserID *int64

	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	// Journal enables the persistent operation journal.
	Journal bool
}

// DefaultConnectionSettings returns settings with tuning defaults applied.
func DefaultConnectionSettings() ConnectionSettings {
	return ConnectionSettings{
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		Timeout:           DefaultTimeout,
		Journal:           true,
	}
}

// Credentials extracts the credential exchange parameters.
func (s ConnectionSettings) Credentials() Credentials {
	return Credentials{
		Username:          s.Username,
		Password:          s.Password,
		ClientID:          s.ClientID,
		ClientSecret:      s.ClientSecret,
		ImpersonateUserID: s.ImpersonateUserID,
	}
}

// URLFor returns the base URL serving a scope.
// The management and workflow URLs fall back to the API URL when unset.
func (s ConnectionSettings) URLFor(scope Scope) string {
	switch scope {
	case ScopeManagement:
		if s.ManagementURL != "" {
			return s.ManagementURL
		}
	case ScopeWorkflow:
		if s.WorkflowURL != "" {
			return s.WorkflowURL
		}
	}
	return s.APIURL
}

// Validate checks the settings required to reach the service.
func (s ConnectionSettings) Validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("api_url is required: %w", ErrInvalidInput)
	}
	for name, raw := range map[string]string{
		"api_url":        s.APIURL,
		"management_url": s.ManagementURL,
		"workflow_url":   s.WorkflowURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q is not an absolute URL: %w", name, raw, ErrInvalidInput)
		}
	}
	if s.Username == "" {
		return fmt.Errorf("username is required: %w", ErrInvalidInput)
	}
	if s.ClientID == "" {
		return fmt.Errorf("client_id is required: %w", ErrInvalidInput)
	}
	if s.RequestsPerSecond < 0 || s.Burst < 0 {
		return fmt.Errorf("rate limits must not be negative: %w", ErrInvalidInput)
	}
	return nil
}
