package utils

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret", time.Minute)

	token, expiresAt, err := GenerateJWT("ada@example.com", "github", 7)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "github", claims.Provider)

	InitJWT("other-secret", 0)
	_, err = ParseJWT(token)
	assert.Error(t, err)
	InitJWT("test-secret", 0)
}

func TestJWTRequiresSecret(t *testing.T) {
	saved := jwtSecret
	defer func() { jwtSecret = saved }()
	jwtSecret = nil

	_, _, err := GenerateJWT("ada@example.com", "github", 7)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTclaims{UserID: 1, Provider: "github"})
	signed, err := forged.SignedString([]byte("SECRET_KEY"))
	require.NoError(t, err)
	_, err = ParseJWT(signed)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)

	InitJWT("", 0)
	assert.Empty(t, jwtSecret)
}

func TestValidateState(t *testing.T) {
	state, err := GenerateState()
	require.NoError(t, err)
	other, err := GenerateState()
	require.NoError(t, err)

	assert.Len(t, state, 22)
	assert.True(t, ValidateState(state, state))
	assert.False(t, ValidateState(state, other))
	assert.False(t, ValidateState("", state))
	assert.False(t, ValidateState(state, "short"))
}

func TestGenerateStateReportsEntropyFailure(t *testing.T) {
	saved := randRead
	defer func() { randRead = saved }()
	randRead = func(b []byte) (int, error) { return 0, errors.New("entropy unavailable") }

	state, err := GenerateState()
	assert.Error(t, err)
	assert.Empty(t, state)

	_, err = RandomPasswordHash()
	assert.Error(t, err)
}

func TestRandomPasswordHashIsUnusable(t *testing.T) {
	first, err := RandomPasswordHash()
	require.NoError(t, err)
	second, err := RandomPasswordHash()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.False(t, CheckPassword(first, ""))

	hashed, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hashed, "secret"))
}

func TestTranslateFollowsAcceptLanguage(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{name: "no header", header: "", want: language.English},
		{name: "indonesian", header: "id-ID,id;q=0.9", want: language.Indonesian},
		{name: "unsupported", header: "fr-FR", want: language.English},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Accept-Language", tc.header)
			}
			assert.Equal(t, tc.want, RequestLanguage(r))
		})
	}

	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "The user id field is required.", Translate(r, "validation.required", "user id"))
	r.Header.Set("Accept-Language", "id")
	assert.Equal(t, "Kolom user id wajib diisi.", Translate(r, "validation.required", "user id"))
}

func TestAPIResponseDefaultsToEmptyData(t *testing.T) {
	resp := APIResponse(nil, 404, "missing")
	assert.Equal(t, []any{}, resp.Data)
	assert.Equal(t, 404, resp.Code)

	rec := httptest.NewRecorder()
	WriteAPIResponse(rec, resp)
	assert.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"data":[],"code":404,"message":"missing"}`, rec.Body.String())
}
