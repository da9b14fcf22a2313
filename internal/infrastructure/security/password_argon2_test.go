package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapParams keeps the key derivation fast in tests.
func cheapParams() Argon2Params {
	return Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   32,
	}
}

func TestArgon2_HashAndMatch(t *testing.T) {
	svc := NewArgon2PasswordService(cheapParams())

	digest, err := svc.Hash("correct-horse", "salt-1")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotContains(t, digest, "correct-horse")

	assert.True(t, svc.Matches("correct-horse", "salt-1", digest))
	assert.False(t, svc.Matches("wrong-horse", "salt-1", digest))
	assert.False(t, svc.Matches("correct-horse", "salt-2", digest))
}

func TestArgon2_HashIsDeterministicPerSalt(t *testing.T) {
	svc := NewArgon2PasswordService(cheapParams())

	first, err := svc.Hash("pw", "salt")
	require.NoError(t, err)
	second, err := svc.Hash("pw", "salt")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := svc.Hash("pw", "other-salt")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestArgon2_MatchesRejectsGarbageDigest(t *testing.T) {
	svc := NewArgon2PasswordService(cheapParams())
	assert.False(t, svc.Matches("pw", "salt", "not base64 !!!"))
	assert.False(t, svc.Matches("pw", "salt", ""))
}

func TestArgon2_ZeroParamsFallBackToDefaults(t *testing.T) {
	svc := NewArgon2PasswordService(Argon2Params{})
	digest, err := svc.Hash("pw", "salt")
	require.NoError(t, err)
	assert.True(t, svc.Matches("pw", "salt", digest))
}
