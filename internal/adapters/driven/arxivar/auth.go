package arxivar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Ensure Authenticator implements the interface.
var _ driven.Authenticator = (*Authenticator)(nil)

// Authenticator exchanges credentials at the service's token endpoint.
type Authenticator struct {
	baseURL string
	http    *http.Client
}

// NewAuthenticator creates an authenticator for the API at baseURL.
// A nil httpClient uses a client with the default timeout.
func NewAuthenticator(baseURL string, httpClient *http.Client) *Authenticator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: domain.DefaultTimeout}
	}
	return &Authenticator{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type tokenRequest struct {
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	ClientID          string   `json:"clientId"`
	ClientSecret      string   `json:"clientSecret"`
	ImpersonateUserID *int64   `json:"impersonateUserId,omitempty"`
	ScopeList         []string `json:"scopeList,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticate performs the credential exchange restricted to scope.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials, scope domain.Scope) (*domain.Token, error) {
	body, err := json.Marshal(tokenRequest{
		Username:          creds.Username,
		Password:          creds.Password,
		ClientID:          creds.ClientID,
		ClientSecret:      creds.ClientSecret,
		ImpersonateUserID: creds.ImpersonateUserID,
		ScopeList:         scope.Permissions(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/Authentication", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("token request: %w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := checkResponse("token request", resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthenticationFailed, apiErr.Error())
		}
		return nil, err
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access token: %w", domain.ErrAuthenticationFailed)
	}

	return &domain.Token{
		Scope:        scope,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ObtainedAt:   time.Now(),
	}, nil
}
