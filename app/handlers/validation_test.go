package main

import (
	"testing"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Validation Test Cases:

1. TestValidateRequest_CollectsAllErrors
   - Every invalid field is reported, not just the first
   - Field names match the JSON names the client sent

2. TestValidateRequest_PasswordStrength
   - Upper, lower, and digit all required

3. TestValidateRequest_PersonName
   - Letters, spaces, hyphens, apostrophes allowed; digits and periods rejected

4. TestValidateRequest_ConfirmPasswordMismatch

5. TestValidateRequest_RoleEnum

6. TestValidateRequest_ExpertiseBounds
   - More than 10 entries rejected; entries over 50 chars rejected

7. TestSanitizeInput / TestSanitizeEmail
   - Trimming, control character stripping, lowercasing, length caps
*/

func validRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Password:        "Password123",
		ConfirmPassword: "Password123",
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	req := validRequest()
	assert.Nil(t, validateRequest(&req))
}

func TestValidateRequest_CollectsAllErrors(t *testing.T) {
	req := dto.RegisterRequest{
		FullName:        "J",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	}

	appErr := validateRequest(&req)
	require.NotNil(t, appErr)
	require.GreaterOrEqual(t, len(appErr.Errors), 4, "all field errors must be collected")

	fields := make(map[string]bool)
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["fullName"], "errors must use JSON field names")
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["confirmPassword"])
}

func TestValidateRequest_PasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Password123", true},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"Ok1ok1ok", true},
	}

	for _, tc := range cases {
		req := validRequest()
		req.Password = tc.password
		req.ConfirmPassword = tc.password
		appErr := validateRequest(&req)
		if tc.valid {
			assert.Nil(t, appErr, "password %q should pass", tc.password)
		} else {
			assert.NotNil(t, appErr, "password %q should fail", tc.password)
		}
	}
}

func TestValidateRequest_PersonName(t *testing.T) {
	valid := []string{"Jane Doe", "Mary-Jane O'Brien", "Anna-Lena Svensson"}
	for _, name := range valid {
		req := validRequest()
		req.FullName = name
		assert.Nil(t, validateRequest(&req), "name %q should pass", name)
	}

	invalid := []string{"Jane123", "user@name", "name_with_underscore", "J. R. R. Tolkien"}
	for _, name := range invalid {
		req := validRequest()
		req.FullName = name
		assert.NotNil(t, validateRequest(&req), "name %q should fail", name)
	}
}

func TestValidateRequest_ConfirmPasswordMismatch(t *testing.T) {
	req := validRequest()
	req.ConfirmPassword = "Different123"

	appErr := validateRequest(&req)
	require.NotNil(t, appErr)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "confirmPassword", appErr.Errors[0].Field)
}

func TestValidateRequest_RoleEnum(t *testing.T) {
	for _, role := range []string{"publisher", "reviewer", "admin", ""} {
		req := validRequest()
		req.Role = role
		assert.Nil(t, validateRequest(&req), "role %q should pass", role)
	}

	req := validRequest()
	req.Role = "editor"
	assert.NotNil(t, validateRequest(&req))
}

func TestValidateRequest_ExpertiseBounds(t *testing.T) {
	req := validRequest()
	for i := 0; i < 11; i++ {
		req.Expertise = append(req.Expertise, "topic")
	}
	assert.NotNil(t, validateRequest(&req), "more than 10 expertise entries should fail")

	req = validRequest()
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	req.Expertise = dto.ExpertiseInput{string(long)}
	assert.NotNil(t, validateRequest(&req), "entries over 50 chars should fail")

	req = validRequest()
	req.Expertise = dto.ExpertiseInput{"ml", "nlp"}
	assert.Nil(t, validateRequest(&req))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", sanitizeInput("  hello  ", 0, false))
	assert.Equal(t, "hello", sanitizeInput("he\x00llo", 0, false))
	assert.Equal(t, "hel", sanitizeInput("hello", 3, false))
	assert.Equal(t, "P@ss!w0rd", sanitizeInput("  P@ss!w0rd  ", 128, true),
		"passwords keep special characters")
	assert.Equal(t, "hello", sanitizeInput("hel\x07lo", 0, false),
		"control characters stripped from non-password input")
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", sanitizeEmail("  Jane@Example.COM  ", 100))
}
