package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/config"
)

const (
	// ContextKeyToken holds the parsed *jwt.Token.
	ContextKeyToken = "auth_token"
	// ContextKeySubject holds the token subject.
	ContextKeySubject = "auth_subject"
)

// Validator validates bearer JWTs against the identity provider's JWKS.
type Validator struct {
	cfg     *config.Config
	log     zerolog.Logger
	keyfunc jwt.Keyfunc
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Warn().Msg("authentication disabled, API routes are public")
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:     cfg,
		log:     log,
		keyfunc: jwks.Keyfunc,
	}, nil
}

// Middleware enforces JWT auth when enabled. Every rejection answers with the same body so
// callers cannot distinguish a missing token from a bad signature.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.AuthAudience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.AuthAudience))
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			v.abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc, opts...)
		if err != nil || !token.Valid {
			v.abortUnauthorized(c, "invalid token")
			return
		}

		if !v.authorizedParty(claims) {
			v.abortUnauthorized(c, "unauthorized party")
			return
		}

		subject, _ := claims.GetSubject()
		c.Set(ContextKeyToken, token)
		c.Set(ContextKeySubject, subject)
		c.Next()
	}
}

// authorizedParty checks the azp claim when a list of permitted parties is configured.
func (v *Validator) authorizedParty(claims jwt.MapClaims) bool {
	if len(v.cfg.AuthAuthorizedParties) == 0 {
		return true
	}
	azp, _ := claims["azp"].(string)
	return azp != "" && slices.Contains(v.cfg.AuthAuthorizedParties, azp)
}

// Subject returns the authenticated subject, empty when auth is disabled.
func Subject(c *gin.Context) string {
	return c.GetString(ContextKeySubject)
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

func (v *Validator) abortUnauthorized(c *gin.Context, reason string) {
	v.log.Debug().Str("reason", reason).Str("path", c.FullPath()).Msg("request rejected")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Unauthorized",
		"code":  "401",
	})
}
