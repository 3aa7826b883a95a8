package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordValidator_ValidateUsername(t *testing.T) {
	validator := NewPasswordValidator()

	tests := []struct {
		name        string
		username    string
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "valid username",
			username: "tecnico1",
		},
		{
			name:        "too short",
			username:    "ab",
			wantErr:     true,
			expectedErr: "username must be at least 3 characters",
		},
		{
			name:        "too long",
			username:    strings.Repeat("a", 33),
			wantErr:     true,
			expectedErr: "username must be at most 32 characters",
		},
		{
			name:     "valid with dot and dash",
			username: "j.perez-norte",
		},
		{
			name:     "accented letters",
			username: "josé_núñez",
		},
		{
			name:        "invalid space",
			username:    "jose perez",
			wantErr:     true,
			expectedErr: "username can only contain letters, digits, '_', '-', '.'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPasswordValidator_ValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		validator   *PasswordValidator
		password    string
		expectedErr string
	}{
		{
			name:      "letters and digits",
			validator: NewPasswordValidator(),
			password:  "pozo2024",
		},
		{
			name:        "too short",
			validator:   NewPasswordValidator(),
			password:    "ab1",
			expectedErr: "password must be at least 6 characters",
		},
		{
			name:        "no digit",
			validator:   NewPasswordValidator(),
			password:    "secreto",
			expectedErr: "password must contain at least one digit",
		},
		{
			name:        "strict needs uppercase",
			validator:   NewStrictPasswordValidator(),
			password:    "abc123!@",
			expectedErr: "password must contain at least one uppercase letter",
		},
		{
			name:        "strict needs special char",
			validator:   NewStrictPasswordValidator(),
			password:    "Abcdef12",
			expectedErr: "password must contain at least one special character",
		},
		{
			name:      "strict accepts strong",
			validator: NewStrictPasswordValidator(),
			password:  "P@ssw0rd123!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator.ValidatePassword(tt.password)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPasswordValidator_ValidateRegister(t *testing.T) {
	validator := NewPasswordValidator()

	tests := []struct {
		name           string
		username       string
		email          string
		password       string
		expectedErrMsg string
	}{
		{
			name:     "valid registration",
			username: "tecnico1",
			email:    "tecnico1@example.mx",
			password: "pozo2024",
		},
		{
			name:           "invalid username",
			username:       "ab",
			email:          "ab@example.mx",
			password:       "pozo2024",
			expectedErrMsg: "username validation failed",
		},
		{
			name:           "invalid email",
			username:       "tecnico1",
			email:          "no-es-correo",
			password:       "pozo2024",
			expectedErrMsg: "email validation failed",
		},
		{
			name:           "invalid password",
			username:       "tecnico1",
			email:          "tecnico1@example.mx",
			password:       "abc",
			expectedErrMsg: "password validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateRegister(tt.username, tt.email, tt.password)
			if tt.expectedErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewPasswordValidator(t *testing.T) {
	v := NewPasswordValidator()
	assert.False(t, v.requireSpecialChar)
	assert.True(t, v.requireDigit)
	assert.False(t, v.requireUpper)
	assert.True(t, v.requireLower)
}
