package docs

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec represents a simplified OpenAPI 3.0 specification
type OpenAPISpec struct {
	OpenAPI string                 `json:"openapi"`
	Info    Info                   `json:"info"`
	Servers []Server               `json:"servers"`
	Paths   map[string]interface{} `json:"paths"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type obj = map[string]interface{}

// op builds a path operation entry with the standard JSON response.
func op(summary, operationID, tag string, extra obj) obj {
	o := obj{
		"summary":     summary,
		"operationId": operationID,
		"tags":        []string{tag},
		"responses": obj{
			"200": obj{
				"description": "Success",
				"content": obj{
					"application/json": obj{"schema": obj{"type": "object"}},
				},
			},
		},
	}
	for k, v := range extra {
		o[k] = v
	}
	return o
}

func jsonBody(required []string, properties obj) obj {
	return obj{
		"required": true,
		"content": obj{
			"application/json": obj{
				"schema": obj{
					"type":       "object",
					"required":   required,
					"properties": properties,
				},
			},
		},
	}
}

func strProp(format string) obj {
	p := obj{"type": "string"}
	if format != "" {
		p["format"] = format
	}
	return p
}

var bearerAuth = []obj{{"bearerAuth": []string{}}}

var tokenParam = []obj{{
	"name":     "token",
	"in":       "path",
	"required": true,
	"schema":   obj{"type": "string"},
}}

var spec OpenAPISpec

func init() {
	spec = OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Journal Platform API",
			Description: "Account lifecycle, profiles, and manuscript endpoints for the journal platform",
			Version:     "1.0.0",
		},
		Servers: []Server{
			{URL: "http://localhost:8080", Description: "Local development server"},
		},
		Paths: map[string]interface{}{
			"/health": obj{
				"get": op("Health check", "healthCheck", "Health", obj{
					"description": "Reports the health of the service and its dependencies",
				}),
			},
			"/api/auth/register": obj{
				"post": op("Register account", "register", "Authentication", obj{
					"requestBody": jsonBody(
						[]string{"fullName", "email", "password", "confirmPassword"},
						obj{
							"fullName":        strProp(""),
							"email":           strProp("email"),
							"password":        strProp("password"),
							"confirmPassword": strProp("password"),
							"role":            obj{"type": "string", "enum": []string{"publisher", "reviewer", "admin"}},
							"bio":             strProp(""),
							"expertise":       obj{"type": "array", "items": strProp("")},
						},
					),
				}),
			},
			"/api/auth/login": obj{
				"post": op("Login", "login", "Authentication", obj{
					"requestBody": jsonBody(
						[]string{"email", "password"},
						obj{"email": strProp("email"), "password": strProp("password")},
					),
				}),
			},
			"/api/auth/verify-email/{token}": obj{
				"get": op("Verify email", "verifyEmail", "Authentication", obj{
					"parameters": tokenParam,
				}),
			},
			"/api/auth/resend-verification": obj{
				"post": op("Resend verification email", "resendVerification", "Authentication", obj{
					"requestBody": jsonBody([]string{"email"}, obj{"email": strProp("email")}),
				}),
			},
			"/api/auth/forgot-password": obj{
				"post": op("Request password reset", "forgotPassword", "Authentication", obj{
					"description": "Always returns the same response regardless of account state",
					"requestBody": jsonBody([]string{"email"}, obj{"email": strProp("email")}),
				}),
			},
			"/api/auth/reset-password/{token}": obj{
				"post": op("Reset password", "resetPassword", "Authentication", obj{
					"parameters": tokenParam,
					"requestBody": jsonBody(
						[]string{"password", "confirmPassword"},
						obj{"password": strProp("password"), "confirmPassword": strProp("password")},
					),
				}),
			},
			"/api/auth/me": obj{
				"get": op("Current user", "me", "Authentication", obj{
					"security": bearerAuth,
				}),
			},
			"/api/auth/logout": obj{
				"post": op("Logout", "logout", "Authentication", obj{
					"security": bearerAuth,
				}),
			},
			"/api/user/profile": obj{
				"get": op("Get profile", "getProfile", "User", obj{
					"security": bearerAuth,
				}),
				"put": op("Update profile", "updateProfile", "User", obj{
					"security": bearerAuth,
					"requestBody": jsonBody(nil, obj{
						"fullName":  strProp(""),
						"bio":       strProp(""),
						"expertise": obj{"type": "array", "items": strProp("")},
					}),
				}),
			},
			"/api/user/stats": obj{
				"get": op("User stats", "userStats", "User", obj{
					"security": bearerAuth,
				}),
			},
			"/api/manuscripts": obj{
				"get": op("List manuscripts", "listManuscripts", "Manuscripts", obj{
					"security": bearerAuth,
				}),
				"post": op("Submit manuscript", "submitManuscript", "Manuscripts", obj{
					"security": bearerAuth,
					"requestBody": jsonBody(nil, obj{
						"title":    strProp(""),
						"abstract": strProp(""),
						"keywords": obj{"type": "array", "items": strProp("")},
						"category": strProp(""),
					}),
				}),
			},
		},
	}
}

// OpenAPIHandler serves the OpenAPI specification as JSON
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
