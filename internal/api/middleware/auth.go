package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-provenance/internal/api/shared/errors"
	"github.com/feral-file/ff-provenance/internal/logger"
)

const (
	AUTH_TYPE_KEY  = "auth_type"
	ACCOUNT_ID_KEY = "account_id"
	JWT_CLAIMS_KEY = "jwt_claims"

	AUTH_TYPE_JWT    = "jwt"
	AUTH_TYPE_APIKEY = "apikey"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Authenticator verifies account tokens and API keys. The public key is parsed once.
type Authenticator struct {
	publicKey *rsa.PublicKey
	keyErr    error
	apiKeys   [][]byte
}

// NewAuthenticator creates an authenticator. A missing or malformed public key does not fail
// construction; every JWT is rejected instead.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	a := &Authenticator{}

	if cfg.JWTPublicKey == "" {
		a.keyErr = errors.New("JWT public key not configured")
	} else if key, err := parseRSAPublicKey(cfg.JWTPublicKey); err != nil {
		a.keyErr = fmt.Errorf("failed to parse RSA public key: %w", err)
	} else {
		a.publicKey = key
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}

	return a
}

// AuthResult holds the result of authentication
type AuthResult struct {
	AuthType  string // "jwt" or "apikey"
	Claims    *jwt.RegisteredClaims
	AccountID uuid.UUID
}

// Authenticate validates the Authorization header and returns the authentication result
func (a *Authenticator) Authenticate(authHeader string) (*AuthResult, error) {
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	// Parse the authorization header
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid Authorization header format")
	}

	authType := strings.ToLower(parts[0])
	credentials := strings.TrimSpace(parts[1])

	switch authType {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			return nil, err
		}
		accountID, err := uuid.Parse(claims.Subject)
		if err != nil || accountID == uuid.Nil {
			return nil, errors.New("token subject is not an account ID")
		}
		return &AuthResult{AuthType: AUTH_TYPE_JWT, Claims: claims, AccountID: accountID}, nil

	case "apikey":
		if err := a.validateAPIKey(credentials); err != nil {
			return nil, err
		}
		return &AuthResult{AuthType: AUTH_TYPE_APIKEY}, nil

	default:
		return nil, fmt.Errorf("unsupported authorization type: %s", authType)
	}
}

// RequireAccount returns a gin middleware that only admits requests carrying a valid account token
func (a *Authenticator) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := a.Authenticate(c.GetHeader("Authorization"))
		if err == nil && result.AuthType != AUTH_TYPE_JWT {
			err = errors.New("an account token is required")
		}
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setAccount(c, result)
		c.Next()
	}
}

// OptionalAccount returns a gin middleware that identifies the caller when a valid account token
// is present and lets anonymous requests through. An invalid token is still rejected.
func (a *Authenticator) OptionalAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		result, err := a.Authenticate(header)
		if err == nil && result.AuthType != AUTH_TYPE_JWT {
			err = errors.New("an account token is required")
		}
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setAccount(c, result)
		c.Next()
	}
}

// APIKeyAuth returns a gin middleware that only admits requests carrying a configured API key
func (a *Authenticator) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := a.Authenticate(c.GetHeader("Authorization"))
		if err == nil && result.AuthType != AUTH_TYPE_APIKEY {
			err = errors.New("an API key is required")
		}
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(AUTH_TYPE_KEY, result.AuthType)
		logger.DebugCtx(c.Request.Context(), "API Key authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Next()
	}
}

// AccountID returns the authenticated account, or uuid.Nil for anonymous requests
func AccountID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ACCOUNT_ID_KEY)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

func setAccount(c *gin.Context, result *AuthResult) {
	c.Set(AUTH_TYPE_KEY, result.AuthType)
	c.Set(JWT_CLAIMS_KEY, result.Claims)
	c.Set(ACCOUNT_ID_KEY, result.AccountID)

	ctx := logger.WithFields(c.Request.Context(), zap.String("accountID", result.AccountID.String()))
	c.Request = c.Request.WithContext(ctx)

	logger.DebugCtx(ctx, "JWT authentication successful",
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
}

func abortUnauthorized(c *gin.Context, err error) {
	logger.WarnCtx(c.Request.Context(), "Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		apierrors.Wrap(apierrors.NewUnauthorizedError("Authentication failed", err.Error())))
}

// validateJWT validates a JWT token with RSA signature and returns claims
func (a *Authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.keyErr != nil {
		return nil, a.keyErr
	}

	// Parse and validate the token with claims; expiry and not-before are checked by the parser
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is RSA
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	}, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}

// validateAPIKey validates an API key in constant time
func (a *Authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}

	for _, key := range a.apiKeys {
		if subtle.ConstantTimeCompare(key, []byte(apiKey)) == 1 {
			return nil
		}
	}

	return errors.New("invalid API key")
}
