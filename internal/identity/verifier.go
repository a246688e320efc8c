// Package identity verifies tokens issued by the external identity
// provider. The service never handles credentials itself; sign-in happens
// against the provider, and the client presents the resulting ID token.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cmdc/cmdc/internal/models"
)

// ErrInvalidToken is returned when the provider rejects the presented token.
var ErrInvalidToken = errors.New("invalid identity token")

// Verifier validates a provider-issued ID token and resolves it to a user.
type Verifier interface {
	// Verify checks the token with the provider and returns the identity
	// it asserts. A rejected token yields ErrInvalidToken.
	Verify(ctx context.Context, token string) (models.User, error)
}

// googleTokenInfoURL is Google's token introspection endpoint.
const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google-issued ID tokens via the tokeninfo
// endpoint.
type GoogleVerifier struct {
	// Client is the HTTP client used for introspection requests.
	Client *http.Client
	// Endpoint overrides the introspection URL; empty means Google's.
	Endpoint string
}

// NewGoogleVerifier returns a GoogleVerifier using the default HTTP client.
func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{Client: http.DefaultClient}
}

// Verify introspects the ID token with Google and returns the asserted
// identity. Any non-200 response from the endpoint means the token is not
// valid.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (models.User, error) {
	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = googleTokenInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return models.User{}, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return models.User{}, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.User{}, ErrInvalidToken
	}

	var info struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return models.User{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if info.Sub == "" {
		return models.User{}, ErrInvalidToken
	}

	return models.User{UID: info.Sub, DisplayName: info.Name}, nil
}
