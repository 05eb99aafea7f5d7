package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// Template names. Each pairs a subject line with an HTML body.
const (
	TemplateVerification    = "emailVerification"
	TemplateWelcome         = "welcome"
	TemplateLoginWelcome    = "loginWelcome"
	TemplatePasswordReset   = "passwordReset"
	TemplatePasswordChanged = "passwordChanged"
)

type VerificationData struct {
	FullName        string
	VerificationURL string
}

type WelcomeData struct {
	FullName string
	LoginURL string
}

type LoginWelcomeData struct {
	FullName     string
	LoginTime    string
	DashboardURL string
}

type PasswordResetData struct {
	FullName string
	ResetURL string
}

type PasswordChangedData struct {
	FullName string
	LoginURL string
}

const baseHeader = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: {{.Accent}};">{{.Heading}}</h1>
<p>Hello {{.FullName}},</p>`

const baseFooter = `<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
<p style="color: #999; font-size: 12px;">Journal Platform &middot; connecting researchers worldwide. This is an automated message, please do not reply.</p>
</div>
</body>
</html>`

var templateSubjects = map[string]string{
	TemplateVerification:    "Verify Your Email - Journal Platform",
	TemplateWelcome:         "Welcome to Journal Platform!",
	TemplateLoginWelcome:    "Welcome Back - Journal Platform",
	TemplatePasswordReset:   "Password Reset Request - Journal Platform",
	TemplatePasswordChanged: "Password Changed Successfully - Journal Platform",
}

var templateBodies = map[string]string{
	TemplateVerification: `<p>Welcome to Journal Platform! We're excited to have you join our community of researchers, publishers, and reviewers.</p>
<p>To get started and secure your account, please verify your email address:</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.VerificationURL}}" style="background-color: #3b82f6; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify My Email</a>
</div>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #666;">{{.VerificationURL}}</p>
<p>This verification link will expire in 24 hours. If you didn't create this account, please ignore this email.</p>`,

	TemplateWelcome: `<p>Your email has been verified and your account is ready. You can now sign in, manage your profile, and submit manuscripts for review.</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.LoginURL}}" style="background-color: #10b981; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Go to Login</a>
</div>`,

	TemplateLoginWelcome: `<p>You signed in to Journal Platform on {{.LoginTime}}.</p>
<p>If this was you, no action is needed. If you don't recognize this sign-in, please reset your password immediately.</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.DashboardURL}}" style="background-color: #3b82f6; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Dashboard</a>
</div>`,

	TemplatePasswordReset: `<p>We received a request to reset your password. Click the button below to create a new password:</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.ResetURL}}" style="background-color: #f59e0b; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
</div>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #666;">{{.ResetURL}}</p>
<p>This link will expire in 1 hour. If you didn't request a password reset, please ignore this email. Your password will remain unchanged.</p>`,

	TemplatePasswordChanged: `<p>Your password was changed successfully. You can now sign in with your new password.</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.LoginURL}}" style="background-color: #10b981; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Go to Login</a>
</div>
<p>If you did not make this change, contact support right away.</p>`,
}

var templateHeadings = map[string]struct {
	Heading string
	Accent  string
}{
	TemplateVerification:    {"Verify Your Email Address", "#3b82f6"},
	TemplateWelcome:         {"Welcome to Journal Platform", "#10b981"},
	TemplateLoginWelcome:    {"New Sign-In to Your Account", "#3b82f6"},
	TemplatePasswordReset:   {"Reset Your Password", "#f59e0b"},
	TemplatePasswordChanged: {"Password Changed", "#10b981"},
}

// Render produces the subject and HTML body for a named template.
func Render(name string, data any) (subject, body string, err error) {
	subject, ok := templateSubjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", name)
	}

	head := templateHeadings[name]
	full := baseHeader + templateBodies[name] + baseFooter

	t, err := template.New(name).Parse(full)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf strings.Builder
	if err := t.Execute(&buf, mergeHeading(data, subject, head.Heading, head.Accent)); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return subject, buf.String(), nil
}

// mergeHeading wraps the per-template data with the shared header fields.
func mergeHeading(data any, title, heading, accent string) any {
	switch d := data.(type) {
	case VerificationData:
		return struct {
			Title, Heading, Accent string
			VerificationData
		}{title, heading, accent, d}
	case WelcomeData:
		return struct {
			Title, Heading, Accent string
			WelcomeData
		}{title, heading, accent, d}
	case LoginWelcomeData:
		return struct {
			Title, Heading, Accent string
			LoginWelcomeData
		}{title, heading, accent, d}
	case PasswordResetData:
		return struct {
			Title, Heading, Accent string
			PasswordResetData
		}{title, heading, accent, d}
	case PasswordChangedData:
		return struct {
			Title, Heading, Accent string
			PasswordChangedData
		}{title, heading, accent, d}
	default:
		return d
	}
}
