package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptSession(t *testing.T) {
	session := RememberedSession{
		Email:     "admin@leadportal.se",
		UserType:  "admin",
		UserID:    "65f1c2d3e4a5b6c7d8e9f0a1",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second),
	}

	encrypted, err := EncryptSession(session)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, session.Email)

	decrypted, err := DecryptSession(encrypted)
	require.NoError(t, err)
	assert.Equal(t, session.Email, decrypted.Email)
	assert.Equal(t, session.UserType, decrypted.UserType)
	assert.Equal(t, session.UserID, decrypted.UserID)
	assert.True(t, session.ExpiresAt.Equal(decrypted.ExpiresAt))
}

func TestEncryptSession_UniqueCiphertexts(t *testing.T) {
	session := RememberedSession{Email: "setter@leadportal.se", UserType: "setter"}

	first, err := EncryptSession(session)
	require.NoError(t, err)
	second, err := EncryptSession(session)
	require.NoError(t, err)

	// Random nonce per encryption
	assert.NotEqual(t, first, second)
}

func TestDecryptSession_Garbage(t *testing.T) {
	_, err := DecryptSession("not base64!!!")
	assert.Error(t, err)

	_, err = DecryptSession("c2hvcnQ=")
	assert.Error(t, err)
}

func TestGenerateRememberMeToken(t *testing.T) {
	first, err := GenerateRememberMeToken()
	require.NoError(t, err)
	second, err := GenerateRememberMeToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
