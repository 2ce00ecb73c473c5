package http

import (
	"net/http"

	"opdsapi/internal/httpx"
	"opdsapi/internal/opds"
)

const (
	oauthTokenURL    = "https://archive.org/services/oauth2/access_token.php"
	userProfileURL   = "https://archive.org/services/loans/loan/?action=user_profile"
	registerURL      = "https://archive.org/account/login.createaccount.php"
	oauthPasswordRel = "http://opds-spec.org/auth/oauth/password"
)

type authDocument struct {
	Title          string      `json:"title"`
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	Authentication []authFlow  `json:"authentication"`
	Links          []opds.Link `json:"links"`
}

type authFlow struct {
	Type   string      `json:"type"`
	Labels authLabels  `json:"labels"`
	Links  []opds.Link `json:"links"`
}

type authLabels struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// authenticationDocument describes the OAuth password flow OPDS clients use
// to obtain loans. The document is static; the service itself never
// authenticates anyone.
var authenticationDocument = authDocument{
	Title:       "Log in",
	ID:          "/authentication_document",
	Description: "Log in to the Internet Archive to continue.",
	Authentication: []authFlow{{
		Type: oauthPasswordRel,
		Labels: authLabels{
			Login:    "Username / Email address",
			Password: "Password",
		},
		Links: []opds.Link{
			{Rel: "authenticate", Href: oauthTokenURL, Type: "application/json"},
			{Rel: "refresh", Href: oauthTokenURL, Type: "application/json"},
		},
	}},
	Links: []opds.Link{
		{Rel: "logo", Href: "https://archive.org/images/glogo.jpg", Type: "image/jpeg"},
		{Rel: "profile", Href: userProfileURL, Type: opds.TypeProfile},
		{Rel: "register", Href: registerURL, Type: "text/html"},
		{Rel: "help", Href: "mailto:info@archive.org"},
		{Rel: "about", Href: "https://archive.org/about/", Type: "text/html"},
	},
}

// AuthenticationDocument handles GET /authentication_document.
func AuthenticationDocument(w http.ResponseWriter, r *http.Request) {
	httpx.JSONDocument(w, opds.TypeAuthDoc, authenticationDocument)
}

// Healthcheck handles GET /healthcheck for service monitoring.
func Healthcheck(w http.ResponseWriter, r *http.Request) {
	httpx.JSONDocument(w, "application/json", map[string]string{
		"status":  "healthy",
		"message": "Service is running",
	})
}
