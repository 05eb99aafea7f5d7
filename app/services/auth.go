package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/narang24/Journal-Website-Backend/app/config"
	"github.com/narang24/Journal-Website-Backend/app/dto"
	appErrors "github.com/narang24/Journal-Website-Backend/app/errors"
	"github.com/narang24/Journal-Website-Backend/app/logger"
	"github.com/narang24/Journal-Website-Backend/app/mailer"
	"github.com/narang24/Journal-Website-Backend/app/metrics"
	"github.com/narang24/Journal-Website-Backend/app/models"
	"github.com/narang24/Journal-Website-Backend/app/store"
	"github.com/rs/zerolog"
)

// AuthService handles the account lifecycle: registration, email verification,
// login, and the password reset flow.
type AuthService struct {
	store       store.Storage
	mailer      mailer.Mailer
	frontendURL string
}

// NewAuthService creates a new AuthService. frontendURL is the base for the
// links embedded in outgoing emails.
func NewAuthService(store store.Storage, m mailer.Mailer) *AuthService {
	return &AuthService{
		store:       store,
		mailer:      m,
		frontendURL: config.GetString("FRONTEND_URL", "http://localhost:3000"),
	}
}

// Emailed links carry the token as a query parameter; the frontend reads it
// from the query string, not the path.
func (s *AuthService) verificationURL(token string) string {
	return s.frontendURL + "/verify-email?token=" + token
}

func (s *AuthService) resetURL(token string) string {
	return s.frontendURL + "/reset-password?token=" + token
}

func (s *AuthService) loginURL() string {
	return s.frontendURL + "/login"
}

func (s *AuthService) dashboardURL() string {
	return s.frontendURL + "/dashboard"
}

// Register creates a new account, or overwrites an existing unverified one in
// place. A verified account with the same email is a conflict.
// Note: format validation (lengths, password strength, role enum) is already
// done in the handler layer.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	role := req.Role
	if role == "" {
		role = models.RolePublisher
	}

	existing, err := s.store.Users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.NewInternal("Registration failed. Please try again later.")
	}

	if existing != nil {
		if existing.IsEmailVerified {
			return nil, appErrors.NewConflict("An account with this email already exists.").
				WithAction(appErrors.ActionLogin).
				WithEmail(existing.Email)
		}

		// Unverified account: the previous owner never proved control of the
		// address, so the new registration takes the record over wholesale.
		passwordHash, err := HashPassword(req.Password)
		if err != nil {
			return nil, appErrors.NewInternal("Registration failed. Please try again later.")
		}
		token, err := generateOpaqueToken()
		if err != nil {
			return nil, appErrors.NewInternal("Registration failed. Please try again later.")
		}

		existing.FullName = req.FullName
		existing.PasswordHash = passwordHash
		existing.Role = role
		existing.Bio = req.Bio
		existing.Expertise = []string(req.Expertise)
		existing.IsEmailVerified = false
		existing.SetVerificationToken(token, time.Now().Add(VerificationTokenTTL))

		if err := s.store.Users.Update(ctx, existing); err != nil {
			log.Error().Err(err).Str("email", existing.Email).Msg("failed to overwrite unverified account")
			return nil, appErrors.NewInternal("Registration failed. Please try again later.")
		}

		if err := s.mailer.SendVerification(ctx, existing.Email, existing.FullName, s.verificationURL(token)); err != nil {
			log.Error().Err(err).Str("email", existing.Email).Msg("failed to send verification email")
			return nil, appErrors.NewInternal("Registration succeeded but the verification email could not be sent. Please try again later.")
		}

		return &dto.RegisterResponse{
			Success: true,
			Message: "Account details updated! Please check your email to verify your account.",
			Action:  appErrors.ActionVerify,
			Details: &dto.AccountDetails{
				Email:         existing.Email,
				AccountStatus: "unverified",
				Suggestion:    "Check your inbox for the verification link.",
			},
		}, nil
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.NewInternal("Registration failed. Please try again later.")
	}
	token, err := generateOpaqueToken()
	if err != nil {
		return nil, appErrors.NewInternal("Registration failed. Please try again later.")
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		Bio:          req.Bio,
		Expertise:    []string(req.Expertise),
		IsActive:     true,
	}
	user.SetVerificationToken(token, time.Now().Add(VerificationTokenTTL))

	if err := s.store.Users.Create(ctx, user); err != nil {
		if store.IsUniqueViolation(err) {
			// Lost a race with a concurrent registration for the same email.
			return nil, appErrors.NewDuplicateField("email", "An account with this email already exists.")
		}
		log.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return nil, appErrors.NewInternal("Registration failed. Please try again later.")
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.FullName, s.verificationURL(token)); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
		return nil, appErrors.NewInternal("Registration succeeded but the verification email could not be sent. Please try again later.")
	}

	metrics.RecordRegistration()

	return &dto.RegisterResponse{
		Success: true,
		Message: "Registration successful! Please check your email to verify your account before logging in.",
		Action:  appErrors.ActionVerify,
		Details: &dto.AccountDetails{
			Email:         user.Email,
			AccountStatus: "created",
			Suggestion:    "Check your inbox for the verification link.",
		},
	}, nil
}

// VerifyEmail consumes a verification token. The token is single-use: the
// matching row is marked verified and the token pair is cleared in the same
// update. The welcome email is best-effort; verification is already durable.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	if token == "" {
		return nil, appErrors.NewInvalidInput("Verification token is required.")
	}

	user, err := s.store.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewInvalidInput("Email verification token is invalid or has expired.").
				WithAction(appErrors.ActionResend)
		}
		return nil, appErrors.NewInternal("Email verification failed. Please try again later.")
	}

	user.IsEmailVerified = true
	user.ClearVerificationToken()
	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to mark email verified")
		return nil, appErrors.NewInternal("Email verification failed. Please try again later.")
	}

	metrics.RecordEmailVerification()

	if err := s.mailer.SendWelcome(ctx, user.Email, user.FullName, s.loginURL()); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
	}

	return &dto.MessageResponse{
		Success: true,
		Message: "Email verified successfully! You can now login to your account.",
	}, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account. Unlike the forgot-password flow this one does reveal account state.
func (s *AuthService) ResendVerification(ctx context.Context, req dto.EmailRequest) (*dto.MessageResponse, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	user, err := s.store.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewNotFound("No account found with that email address.")
		}
		return nil, appErrors.NewInternal("Could not resend verification email. Please try again later.")
	}

	if user.IsEmailVerified {
		return nil, appErrors.NewInvalidInput("This email is already verified. You can login to your account.").
			WithAction(appErrors.ActionLogin)
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return nil, appErrors.NewInternal("Could not resend verification email. Please try again later.")
	}
	user.SetVerificationToken(token, time.Now().Add(VerificationTokenTTL))
	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store new verification token")
		return nil, appErrors.NewInternal("Could not resend verification email. Please try again later.")
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.FullName, s.verificationURL(token)); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to resend verification email")
		return nil, appErrors.NewInternal("Could not resend verification email. Please try again later.")
	}

	return &dto.MessageResponse{
		Success: true,
		Message: "Verification email sent! Please check your inbox.",
	}, nil
}

// Login authenticates a user and issues a bearer token. The password is
// checked before verification status, and unknown email and wrong password
// produce byte-identical responses.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	user, err := s.store.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.RecordLoginFailed()
			return nil, invalidCredentials()
		}
		return nil, appErrors.NewInternal("Login failed. Please try again later.")
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordLoginFailed()
		return nil, invalidCredentials()
	}

	if !user.IsEmailVerified {
		return nil, appErrors.NewUnauthorized("Please verify your email before logging in. Check your inbox for the verification link.").
			WithAction(appErrors.ActionVerify).
			WithEmail(user.Email)
	}

	if !user.IsActive {
		return nil, appErrors.NewUnauthorized("Your account has been deactivated. Please contact support.").
			WithAction(appErrors.ActionContact)
	}

	now := time.Now()
	user.LastLogin = sql.NullTime{Time: now, Valid: true}
	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
		return nil, appErrors.NewInternal("Login failed. Please try again later.")
	}

	token, err := GenerateAccessToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to sign access token")
		return nil, appErrors.NewInternal("Login failed. Please try again later.")
	}

	if err := s.mailer.SendLoginWelcome(ctx, user.Email, user.FullName, now, s.dashboardURL()); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send login notification email")
	}

	metrics.RecordLogin()

	return &dto.LoginResponse{
		Success: true,
		Message: "Login successful! Welcome back.",
		Token:   token,
		User:    user.Public(),
	}, nil
}

func invalidCredentials() *appErrors.AppError {
	return appErrors.NewUnauthorized("Invalid credentials. Please check your email and password.").
		WithAction(appErrors.ActionRetry)
}

// forgotPasswordResponse is the single response every forgot-password call
// returns, whatever actually happened. Anything else would let a caller probe
// which addresses have accounts.
func forgotPasswordResponse() *dto.MessageResponse {
	return &dto.MessageResponse{
		Success: true,
		Message: "If an account with that email exists, a password reset link has been sent.",
	}
}

// ForgotPassword starts the reset flow. It has no failure mode visible to the
// caller: every branch, including internal errors, returns the same response.
func (s *AuthService) ForgotPassword(ctx context.Context, req dto.EmailRequest) *dto.MessageResponse {
	log := getLoggerFromContext(ctx)

	user, err := s.store.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("forgot-password lookup failed")
		}
		return forgotPasswordResponse()
	}

	if !user.IsEmailVerified {
		return forgotPasswordResponse()
	}

	token, err := generateOpaqueToken()
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to generate reset token")
		return forgotPasswordResponse()
	}
	user.SetResetToken(token, time.Now().Add(PasswordResetTokenTTL))
	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store reset token")
		return forgotPasswordResponse()
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, s.resetURL(token)); err != nil {
		// The link never reached the user, so the token must not stay live.
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email, revoking token")
		user.ClearResetToken()
		if clearErr := s.store.Users.Update(ctx, user); clearErr != nil {
			log.Error().Err(clearErr).Str("user_id", user.ID).Msg("failed to revoke reset token")
		}
		return forgotPasswordResponse()
	}

	metrics.RecordPasswordResetRequest()
	return forgotPasswordResponse()
}

// ResetPassword consumes a reset token and installs a new password. The token
// pair is cleared in the same update that stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req dto.ResetPasswordRequest) (*dto.MessageResponse, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	if token == "" {
		return nil, appErrors.NewInvalidInput("Reset token is required.")
	}

	user, err := s.store.Users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewInvalidInput("Password reset token is invalid or has expired. Please request a new one.").
				WithAction(appErrors.ActionForgot)
		}
		return nil, appErrors.NewInternal("Password reset failed. Please try again later.")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.NewInternal("Password reset failed. Please try again later.")
	}

	user.PasswordHash = passwordHash
	user.ClearResetToken()
	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store new password")
		return nil, appErrors.NewInternal("Password reset failed. Please try again later.")
	}

	metrics.RecordPasswordReset()

	if err := s.mailer.SendPasswordChanged(ctx, user.Email, user.FullName, s.loginURL()); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send password changed email")
	}

	return &dto.MessageResponse{
		Success: true,
		Message: "Password reset successfully! You can now login with your new password.",
	}, nil
}

// getLoggerFromContext returns the request-scoped logger, falling back to the
// global one outside of a request.
func getLoggerFromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &logger.Logger
	}
	return l
}
