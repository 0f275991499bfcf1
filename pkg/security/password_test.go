package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loftmebel/loft-backend/pkg/config"
)

var testArgonConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("correct horse battery staple", testArgonConfig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	valid, err := VerifyPassword("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same input", testArgonConfig)
	require.NoError(t, err)
	second, err := HashPassword("same input", testArgonConfig)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("", testArgonConfig)
	require.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=8192,t=1,p=1$only-four-parts",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		_, err := VerifyPassword("whatever", encoded)
		assert.Error(t, err, "hash %q", encoded)
	}
}
