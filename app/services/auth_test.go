package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/narang24/Journal-Website-Backend/app/dto"
	appErrors "github.com/narang24/Journal-Website-Backend/app/errors"
	"github.com/narang24/Journal-Website-Backend/app/models"
	"github.com/narang24/Journal-Website-Backend/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
AuthService Test Cases:

1. TestAuthService_Register_NewAccount
   - No existing user (sql.ErrNoRows)
   - Password is hashed, role defaults to publisher, account starts active and unverified
   - Verification token installed and verification email sent
   - Details.AccountStatus is "created"

2. TestAuthService_Register_OverwritesUnverified
   - Existing unverified account is overwritten in place
   - Same row keeps its ID; new name, hash, and token
   - Details.AccountStatus is "unverified"

3. TestAuthService_Register_VerifiedConflict
   - Existing verified account returns 409 with login action

4. TestAuthService_Register_EmailSendFailure
   - Verification email failure fails the request with 500

5. TestAuthService_Register_UniqueViolationRace
   - Create hits the unique index -> duplicate-field error on email

6. TestAuthService_VerifyEmail_Success
   - Token consumed: verified flag set, token pair cleared in one update
   - Welcome email failure does not fail verification

7. TestAuthService_VerifyEmail_InvalidToken
   - Unknown/expired token -> 400 with resend action

8. TestAuthService_ResendVerification_AlreadyVerified
   - 400 with login action

9. TestAuthService_ResendVerification_UnknownEmail
   - 404 (this flow does reveal account existence)

10. TestAuthService_Login_Success
    - Correct credentials return a decodable token and sanitized user
    - last_login is recorded

11. TestAuthService_Login_UnknownEmailAndWrongPassword_Identical
    - Both produce the same generic message and retry action

12. TestAuthService_Login_PasswordCheckedBeforeVerification
    - Wrong password on an unverified account yields the generic
      invalid-credentials response, not the verify-required one

13. TestAuthService_Login_UnverifiedAccount
    - Correct password but unverified -> verify action with email attached

14. TestAuthService_Login_DeactivatedAccount
    - Correct password, verified, inactive -> contact action

15. TestAuthService_ForgotPassword_UniformResponse
    - Unknown email, unverified account, happy path, and mail failure all
      return the identical response

16. TestAuthService_ForgotPassword_MailFailureRevokesToken
    - When dispatch fails the stored reset token is cleared again

17. TestAuthService_ResetPassword_Success
    - New hash stored, token pair cleared in the same update

18. TestAuthService_ResetPassword_InvalidToken
    - 400 with forgot action
*/

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-key")
	os.Exit(m.Run())
}

// mockUsersStore is a func-field mock of the Users store interface.
type mockUsersStore struct {
	getByIDFunc                func(ctx context.Context, id string) (*models.User, error)
	getByEmailFunc             func(ctx context.Context, email string) (*models.User, error)
	getByVerificationTokenFunc func(ctx context.Context, token string) (*models.User, error)
	getByResetTokenFunc        func(ctx context.Context, token string) (*models.User, error)
	createFunc                 func(ctx context.Context, user *models.User) error
	updateFunc                 func(ctx context.Context, user *models.User) error
}

func (m *mockUsersStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsersStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsersStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if m.getByVerificationTokenFunc != nil {
		return m.getByVerificationTokenFunc(ctx, token)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsersStore) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	if m.getByResetTokenFunc != nil {
		return m.getByResetTokenFunc(ctx, token)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsersStore) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUsersStore) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func setupMockStorage(mockUsers *mockUsersStore) store.Storage {
	return store.Storage{Users: mockUsers}
}

// mockMailer records every dispatch and fails on demand per template.
type mockMailer struct {
	verificationCalls int
	welcomeCalls      int
	loginWelcomeCalls int
	resetCalls        int
	changedCalls      int

	lastTo  string
	lastURL string

	verificationErr error
	welcomeErr      error
	loginWelcomeErr error
	resetErr        error
	changedErr      error
}

func (m *mockMailer) SendVerification(ctx context.Context, to, fullName, verificationURL string) error {
	m.verificationCalls++
	m.lastTo = to
	m.lastURL = verificationURL
	return m.verificationErr
}

func (m *mockMailer) SendWelcome(ctx context.Context, to, fullName, loginURL string) error {
	m.welcomeCalls++
	m.lastTo = to
	return m.welcomeErr
}

func (m *mockMailer) SendLoginWelcome(ctx context.Context, to, fullName string, loginTime time.Time, dashboardURL string) error {
	m.loginWelcomeCalls++
	m.lastTo = to
	return m.loginWelcomeErr
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, fullName, resetURL string) error {
	m.resetCalls++
	m.lastTo = to
	m.lastURL = resetURL
	return m.resetErr
}

func (m *mockMailer) SendPasswordChanged(ctx context.Context, to, fullName, loginURL string) error {
	m.changedCalls++
	m.lastTo = to
	return m.changedErr
}

func newAuthService(users *mockUsersStore, m *mockMailer) *AuthService {
	return NewAuthService(setupMockStorage(users), m)
}

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Password:        "Password123",
		ConfirmPassword: "Password123",
		Bio:             "Researcher",
		Expertise:       dto.ExpertiseInput{"ml", "nlp"},
	}
}

func TestAuthService_Register_NewAccount(t *testing.T) {
	var created *models.User
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp, appErr := svc.Register(context.Background(), validRegisterRequest())

	require.Nil(t, appErr)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Details)
	assert.Equal(t, "created", resp.Details.AccountStatus)
	assert.Equal(t, "jane@example.com", resp.Details.Email)

	require.NotNil(t, created)
	assert.Equal(t, models.RolePublisher, created.Role, "role should default to publisher")
	assert.True(t, created.IsActive)
	assert.False(t, created.IsEmailVerified)
	assert.NotEqual(t, "Password123", created.PasswordHash)
	assert.True(t, CheckPassword(created.PasswordHash, "Password123"))
	assert.True(t, created.EmailVerificationToken.Valid)
	assert.True(t, created.EmailVerificationExpires.Time.After(time.Now().Add(23*time.Hour)))

	assert.Equal(t, 1, mail.verificationCalls)
	assert.Equal(t, "jane@example.com", mail.lastTo)
	assert.Equal(t, "http://localhost:3000/verify-email?token="+created.EmailVerificationToken.String, mail.lastURL,
		"emailed link carries the token as a query parameter")
}

func TestAuthService_Register_OverwritesUnverified(t *testing.T) {
	existing := &models.User{
		ID:              "user-1",
		FullName:        "Old Name",
		Email:           "jane@example.com",
		PasswordHash:    "old-hash",
		Role:            models.RoleReviewer,
		IsEmailVerified: false,
		IsActive:        true,
	}
	var updated *models.User
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, user *models.User) error {
			updated = user
			return nil
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			t.Fatal("Create must not be called when overwriting an unverified account")
			return nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp, appErr := svc.Register(context.Background(), validRegisterRequest())

	require.Nil(t, appErr)
	require.NotNil(t, resp.Details)
	assert.Equal(t, "unverified", resp.Details.AccountStatus)

	require.NotNil(t, updated)
	assert.Equal(t, "user-1", updated.ID, "overwrite must keep the same row")
	assert.Equal(t, "Jane Doe", updated.FullName)
	assert.Equal(t, models.RolePublisher, updated.Role)
	assert.True(t, CheckPassword(updated.PasswordHash, "Password123"))
	assert.True(t, updated.EmailVerificationToken.Valid)
	assert.Equal(t, 1, mail.verificationCalls)
}

func TestAuthService_Register_VerifiedConflict(t *testing.T) {
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: "jane@example.com", IsEmailVerified: true}, nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp, appErr := svc.Register(context.Background(), validRegisterRequest())

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, appErrors.ActionLogin, appErr.Action)
	assert.Equal(t, "jane@example.com", appErr.Email)
	assert.Equal(t, 0, mail.verificationCalls)
}

func TestAuthService_Register_EmailSendFailure(t *testing.T) {
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	mail := &mockMailer{verificationErr: errors.New("smtp down")}
	svc := newAuthService(users, mail)

	resp, appErr := svc.Register(context.Background(), validRegisterRequest())

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestAuthService_Register_UniqueViolationRace(t *testing.T) {
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			return uniqueViolation()
		},
	}
	svc := newAuthService(users, &mockMailer{})

	resp, appErr := svc.Register(context.Background(), validRegisterRequest())

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrCodeDuplicateField, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"}
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	user := &models.User{
		ID:       "user-1",
		Email:    "jane@example.com",
		FullName: "Jane Doe",
	}
	user.SetVerificationToken("tok123", time.Now().Add(time.Hour))

	var updated *models.User
	users := &mockUsersStore{
		getByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			require.Equal(t, "tok123", token)
			return user, nil
		},
		updateFunc: func(ctx context.Context, u *models.User) error {
			updated = u
			return nil
		},
	}
	// A failing welcome email must not fail verification.
	mail := &mockMailer{welcomeErr: errors.New("smtp down")}
	svc := newAuthService(users, mail)

	resp, appErr := svc.VerifyEmail(context.Background(), "tok123")

	require.Nil(t, appErr)
	assert.True(t, resp.Success)

	require.NotNil(t, updated)
	assert.True(t, updated.IsEmailVerified)
	assert.False(t, updated.EmailVerificationToken.Valid, "token must be cleared on consumption")
	assert.False(t, updated.EmailVerificationExpires.Valid)
	assert.Equal(t, 1, mail.welcomeCalls)
}

func TestAuthService_VerifyEmail_InvalidToken(t *testing.T) {
	svc := newAuthService(&mockUsersStore{}, &mockMailer{})

	resp, appErr := svc.VerifyEmail(context.Background(), "expired-or-unknown")

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ActionResend, appErr.Action)
}

func TestAuthService_ResendVerification_AlreadyVerified(t *testing.T) {
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, IsEmailVerified: true}, nil
		},
	}
	svc := newAuthService(users, &mockMailer{})

	resp, appErr := svc.ResendVerification(context.Background(), dto.EmailRequest{Email: "jane@example.com"})

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ActionLogin, appErr.Action)
}

func TestAuthService_ResendVerification_UnknownEmail(t *testing.T) {
	svc := newAuthService(&mockUsersStore{}, &mockMailer{})

	resp, appErr := svc.ResendVerification(context.Background(), dto.EmailRequest{Email: "nobody@example.com"})

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func verifiedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:              "user-1",
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		PasswordHash:    hash,
		Role:            models.RolePublisher,
		IsEmailVerified: true,
		IsActive:        true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := verifiedUser(t, "Password123")

	var updated *models.User
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		updateFunc: func(ctx context.Context, u *models.User) error {
			updated = u
			return nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp, appErr := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "Password123",
	})

	require.Nil(t, appErr)
	assert.True(t, resp.Success)
	assert.Equal(t, "jane@example.com", resp.User.Email)

	claims, err := VerifyAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	require.NotNil(t, updated)
	assert.True(t, updated.LastLogin.Valid, "login must record last_login")
	assert.Equal(t, 1, mail.loginWelcomeCalls)
}

func TestAuthService_Login_UnknownEmailAndWrongPassword_Identical(t *testing.T) {
	user := verifiedUser(t, "Password123")

	unknownUsers := &mockUsersStore{}
	wrongPassUsers := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}

	_, unknownErr := newAuthService(unknownUsers, &mockMailer{}).
		Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "Password123"})
	_, wrongPassErr := newAuthService(wrongPassUsers, &mockMailer{}).
		Login(context.Background(), dto.LoginRequest{Email: "jane@example.com", Password: "WrongPass1"})

	require.NotNil(t, unknownErr)
	require.NotNil(t, wrongPassErr)
	assert.Equal(t, unknownErr.Message, wrongPassErr.Message)
	assert.Equal(t, unknownErr.Status, wrongPassErr.Status)
	assert.Equal(t, unknownErr.Action, wrongPassErr.Action)
	assert.Equal(t, appErrors.ActionRetry, wrongPassErr.Action)
}

func TestAuthService_Login_PasswordCheckedBeforeVerification(t *testing.T) {
	user := verifiedUser(t, "Password123")
	user.IsEmailVerified = false

	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newAuthService(users, &mockMailer{})

	_, appErr := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "WrongPass1",
	})

	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ActionRetry, appErr.Action,
		"wrong password must not leak the verification state")
	assert.Empty(t, appErr.Email)
}

func TestAuthService_Login_UnverifiedAccount(t *testing.T) {
	user := verifiedUser(t, "Password123")
	user.IsEmailVerified = false

	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newAuthService(users, &mockMailer{})

	_, appErr := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "Password123",
	})

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, appErrors.ActionVerify, appErr.Action)
	assert.Equal(t, "jane@example.com", appErr.Email)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	user := verifiedUser(t, "Password123")
	user.IsActive = false

	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newAuthService(users, &mockMailer{})

	_, appErr := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "Password123",
	})

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, appErrors.ActionContact, appErr.Action)
}

func TestAuthService_ForgotPassword_UniformResponse(t *testing.T) {
	verified := verifiedUser(t, "Password123")
	unverified := verifiedUser(t, "Password123")
	unverified.IsEmailVerified = false

	cases := []struct {
		name  string
		users *mockUsersStore
		mail  *mockMailer
	}{
		{
			name:  "unknown email",
			users: &mockUsersStore{},
			mail:  &mockMailer{},
		},
		{
			name: "unverified account",
			users: &mockUsersStore{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return unverified, nil
				},
			},
			mail: &mockMailer{},
		},
		{
			name: "happy path",
			users: &mockUsersStore{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return verified, nil
				},
			},
			mail: &mockMailer{},
		},
		{
			name: "mail dispatch failure",
			users: &mockUsersStore{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return verifiedUser(t, "Password123"), nil
				},
			},
			mail: &mockMailer{resetErr: errors.New("smtp down")},
		},
	}

	var responses []*dto.MessageResponse
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService(tc.users, tc.mail)
			resp := svc.ForgotPassword(context.Background(), dto.EmailRequest{Email: "jane@example.com"})
			require.NotNil(t, resp)
			assert.True(t, resp.Success)
			responses = append(responses, resp)
		})
	}

	for i := 1; i < len(responses); i++ {
		assert.Equal(t, responses[0].Message, responses[i].Message,
			"every forgot-password branch must return the identical message")
	}
}

func TestAuthService_ForgotPassword_ResetLinkTokenInQuery(t *testing.T) {
	user := verifiedUser(t, "Password123")

	var stored *models.User
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		updateFunc: func(ctx context.Context, u *models.User) error {
			stored = u
			return nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp := svc.ForgotPassword(context.Background(), dto.EmailRequest{Email: "jane@example.com"})

	require.NotNil(t, resp)
	require.NotNil(t, stored)
	require.True(t, stored.ResetPasswordToken.Valid)
	assert.Equal(t, "http://localhost:3000/reset-password?token="+stored.ResetPasswordToken.String, mail.lastURL,
		"emailed link carries the token as a query parameter")
}

func TestAuthService_ForgotPassword_MailFailureRevokesToken(t *testing.T) {
	user := verifiedUser(t, "Password123")

	var updates []models.User
	users := &mockUsersStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		updateFunc: func(ctx context.Context, u *models.User) error {
			updates = append(updates, *u)
			return nil
		},
	}
	mail := &mockMailer{resetErr: errors.New("smtp down")}
	svc := newAuthService(users, mail)

	resp := svc.ForgotPassword(context.Background(), dto.EmailRequest{Email: "jane@example.com"})

	require.NotNil(t, resp)
	require.Len(t, updates, 2, "token stored, then revoked")
	assert.True(t, updates[0].ResetPasswordToken.Valid)
	assert.False(t, updates[1].ResetPasswordToken.Valid, "failed dispatch must revoke the token")
	assert.False(t, updates[1].ResetPasswordExpires.Valid)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	user := verifiedUser(t, "OldPassword1")
	user.SetResetToken("reset-tok", time.Now().Add(30*time.Minute))

	var updated *models.User
	users := &mockUsersStore{
		getByResetTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			require.Equal(t, "reset-tok", token)
			return user, nil
		},
		updateFunc: func(ctx context.Context, u *models.User) error {
			updated = u
			return nil
		},
	}
	mail := &mockMailer{}
	svc := newAuthService(users, mail)

	resp, appErr := svc.ResetPassword(context.Background(), "reset-tok", dto.ResetPasswordRequest{
		Password:        "NewPassword1",
		ConfirmPassword: "NewPassword1",
	})

	require.Nil(t, appErr)
	assert.True(t, resp.Success)

	require.NotNil(t, updated)
	assert.True(t, CheckPassword(updated.PasswordHash, "NewPassword1"))
	assert.False(t, CheckPassword(updated.PasswordHash, "OldPassword1"))
	assert.False(t, updated.ResetPasswordToken.Valid, "token must be cleared on consumption")
	assert.Equal(t, 1, mail.changedCalls)
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	svc := newAuthService(&mockUsersStore{}, &mockMailer{})

	resp, appErr := svc.ResetPassword(context.Background(), "bad-token", dto.ResetPasswordRequest{
		Password:        "NewPassword1",
		ConfirmPassword: "NewPassword1",
	})

	assert.Nil(t, resp)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ActionForgot, appErr.Action)
}
