package auth

const (
	// CallbackAPIPath is where clients post the authorization code.
	CallbackAPIPath = "/api/auth/github/callback"

	// TokenStorageKey names the locally persisted access token.
	TokenStorageKey = "github_token"

	// HomeRoute is where the callback flow lands on both outcomes.
	HomeRoute = "/"
)

type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required,max=512"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
}
