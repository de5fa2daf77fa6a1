package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/config"
)

func newTestRouter(v *Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(v.Middleware())
	r.GET("/v1/plants", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeySubject))
	})
	return r
}

func signedToken(t *testing.T, key *rsa.PrivateKey, issuer string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "grower-1",
		Audience:  jwt.ClaimStrings{"roottrack"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(v).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plants", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_Enabled(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := &Validator{
		enabled:  true,
		issuer:   "https://auth.example.test",
		audience: "roottrack",
		keyfunc:  func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		log:      zerolog.Nop(),
	}
	router := newTestRouter(v)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing token", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + signedToken(t, key, "https://other.test"), status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + signedToken(t, key, "https://auth.example.test"), status: http.StatusOK, body: "grower-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/plants", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Token abc"))
	assert.Empty(t, bearerToken(""))
}
