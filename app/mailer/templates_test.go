package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Email Template Test Cases:

1. TestRender_AllTemplates
   - Every known template renders with a non-empty subject
   - Body contains the recipient name and the action URL

2. TestRender_UnknownTemplate

3. TestRender_EscapesHTML
   - Names containing markup are escaped in the rendered body

4. TestService_SendDispatchesRenderedEmail
   - The provider receives the rendered subject/body and the configured sender
*/

func TestRender_AllTemplates(t *testing.T) {
	cases := []struct {
		name string
		data any
		url  string
	}{
		{TemplateVerification, VerificationData{FullName: "Jane Doe", VerificationURL: "http://localhost:3000/verify-email?token=tok"}, "http://localhost:3000/verify-email?token=tok"},
		{TemplateWelcome, WelcomeData{FullName: "Jane Doe", LoginURL: "http://localhost:3000/login"}, "http://localhost:3000/login"},
		{TemplateLoginWelcome, LoginWelcomeData{FullName: "Jane Doe", LoginTime: "Jun 1, 2025 at 12:30 PM UTC", DashboardURL: "http://localhost:3000/dashboard"}, "http://localhost:3000/dashboard"},
		{TemplatePasswordReset, PasswordResetData{FullName: "Jane Doe", ResetURL: "http://localhost:3000/reset-password?token=tok"}, "http://localhost:3000/reset-password?token=tok"},
		{TemplatePasswordChanged, PasswordChangedData{FullName: "Jane Doe", LoginURL: "http://localhost:3000/login"}, "http://localhost:3000/login"},
	}

	for _, tc := range cases {
		subject, body, err := Render(tc.name, tc.data)
		require.NoError(t, err, "template %s", tc.name)
		assert.NotEmpty(t, subject, "template %s subject", tc.name)
		assert.Contains(t, body, "Jane Doe", "template %s should greet the recipient", tc.name)
		assert.Contains(t, body, tc.url, "template %s should include the action URL", tc.name)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, err := Render("doesNotExist", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown email template")
}

func TestRender_EscapesHTML(t *testing.T) {
	_, body, err := Render(TemplateWelcome, WelcomeData{
		FullName: `<script>alert("x")</script>`,
		LoginURL: "http://localhost:3000/login",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

type captureProvider struct {
	last *Email
	err  error
}

func (p *captureProvider) Send(ctx context.Context, email *Email) error {
	p.last = email
	return p.err
}

func (p *captureProvider) Name() string { return "capture" }

func TestService_SendDispatchesRenderedEmail(t *testing.T) {
	provider := &captureProvider{}
	svc := &Service{
		provider: provider,
		cfg: Config{
			FromEmail: "no-reply@journal-platform.local",
			FromName:  "Journal Platform",
		},
	}

	err := svc.SendLoginWelcome(context.Background(), "jane@example.com", "Jane Doe",
		time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), "http://localhost:3000/dashboard")
	require.NoError(t, err)

	require.NotNil(t, provider.last)
	assert.Equal(t, "jane@example.com", provider.last.To)
	assert.Equal(t, "no-reply@journal-platform.local", provider.last.From)
	assert.Equal(t, "Journal Platform", provider.last.FromName)
	assert.Contains(t, provider.last.Subject, "Welcome Back")
	assert.Contains(t, provider.last.Body, "Jun 1, 2025 at 12:30 PM UTC")
}
