package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secreto", "vendedor-7", "ventas", "distribucion-api", 5)
	require.NoError(t, err)

	actor, role, err := Parse("secreto", "distribucion-api", token)
	require.NoError(t, err)
	assert.Equal(t, "vendedor-7", actor)
	assert.Equal(t, "ventas", role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := Generate("secreto", "a1", "bodega", "distribucion-api", 5)
	require.NoError(t, err)
	expired, err := Generate("secreto", "a1", "bodega", "distribucion-api", -1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{"firma distinta", "otro", "distribucion-api", token},
		{"emisor distinto", "secreto", "otra-api", token},
		{"expirado", "secreto", "distribucion-api", expired},
		{"basura", "secreto", "", "no-es-un-token"},
		{"sin secret", "", "", token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "a1", "", "", 5)
	assert.Error(t, err)
}
