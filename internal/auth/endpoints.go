package auth

// Endpoints are the provider URLs used by the flow.
type Endpoints struct {
	AuthURL   string
	TokenURL  string
	RevokeURL string
}

// GoogleEndpoints returns Google's OAuth2 endpoints.
func GoogleEndpoints() Endpoints {
	return Endpoints{
		AuthURL:   "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:  "https://oauth2.googleapis.com/token",
		RevokeURL: "https://oauth2.googleapis.com/revoke",
	}
}

// Scopes requested during authorization.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtubepartner",
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}
