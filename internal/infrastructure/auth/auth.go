package auth

import (
	"context"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"roottrack-api/internal/config"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

const (
	ContextKeyToken   = "auth_token"
	ContextKeySubject = "auth_subject"
)

// Validator validates JWTs using JWKS.
type Validator struct {
	enabled  bool
	issuer   string
	audience string
	keyfunc  jwt.Keyfunc
	jwks     *keyfunc.JWKS
	log      zerolog.Logger
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	logger := log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		return &Validator{log: logger}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		enabled:  true,
		issuer:   cfg.AuthIssuer,
		audience: cfg.AuthAudience,
		keyfunc:  jwks.Keyfunc,
		jwks:     jwks,
		log:      logger,
	}, nil
}

// Middleware enforces JWT auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing bearer token", "5d0c7a0e-7f55-4c57-a9c1-2b4e6f1c9a01")
			return
		}

		token, err := jwt.Parse(tokenString, v.keyfunc, opts...)
		if err != nil || !token.Valid {
			v.log.Debug().Err(err).Msg("rejected bearer token")
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid token", "8b7e4d2f-1a3c-4e5b-9f60-7c8d9e0a1b12")
			return
		}

		c.Set(ContextKeyToken, token)
		if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
			c.Set(ContextKeySubject, sub)
		}
		c.Next()
	}
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
