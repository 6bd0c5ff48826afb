package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSenderPassword(t *testing.T) {
	keyring.MockInit()
	const account = "sender@example.com"

	_, err := SenderPassword(account, "")
	require.ErrorIs(t, err, ErrNoPassword)

	pw, err := SenderPassword(account, "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)

	require.NoError(t, SetSenderPassword(account, "app-password"))

	pw, err = SenderPassword(account, "")
	require.NoError(t, err)
	assert.Equal(t, "app-password", pw)

	pw, err = SenderPassword(account, "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw, "env wins over the keychain")

	require.NoError(t, DeleteSenderPassword(account))
	_, err = SenderPassword(account, "")
	require.ErrorIs(t, err, ErrNoPassword)
}

func TestSetSenderPasswordRejectsEmpty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetSenderPassword("", "pw"))
	assert.Error(t, SetSenderPassword("sender@example.com", "  "))
	assert.Error(t, DeleteSenderPassword(""))
}
