package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/schemas"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	bearerPrefix    = "Bearer "
	defaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "code-atlas"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// JWTMgr is the session token service.
type JWTMgr interface {
	GenerateJWT(userId uuid.UUID, username string) (string, error)
	ValidateJWT(tokenString string) (*Claims, error)
	JWTMiddleware() gin.HandlerFunc
	OptionalJWTMiddleware() gin.HandlerFunc
}

// Claims are the claims of a session token. The subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTManager signs and verifies session tokens with an Ed25519 key pair.
// Tokens are stateless and stay valid until they expire.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// NewJWTManager creates a JWTManager with the given key pair and the default 24 hour lifetime.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return newJWTManager(privateKey, publicKey, defaultIssuer, defaultTokenTTL)
}

func newJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// NewJWTManagerFromFile loads the key pair from path, generating and saving a new one on first start.
// An unreadable or malformed key file is an error and is left untouched.
// Tokens are valid for 24 hours.
func NewJWTManagerFromFile(path, issuer string) (JWTMgr, error) {
	privateKey, publicKey, err := loadKeyPair(path)
	if errors.Is(err, os.ErrNotExist) {
		utils.LogMessage("info", "No key pair found, generating a new one")
		privateKey, publicKey, err = generateKeyPair(path)
	}
	if err != nil {
		return nil, fmt.Errorf("key pair %s: %w", path, err)
	}

	if issuer == "" {
		issuer = defaultIssuer
	}

	return newJWTManager(privateKey, publicKey, issuer, defaultTokenTTL), nil
}

// GenerateJWT issues a token for the user, valid for the configured lifetime.
func (jm *JWTManager) GenerateJWT(userId uuid.UUID, username string) (string, error) {
	now := jm.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jm.issuer,
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jm.ttl)),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT verifies signature, algorithm, issuer and expiry of the token.
// It fails with ErrTokenExpired or ErrTokenInvalid.
func (jm *JWTManager) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method %s", token.Method.Alg())
		}
		return jm.publicKey, nil
	},
		jwt.WithIssuer(jm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(jm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrTokenInvalid)
	}

	return claims, nil
}

// identityFromHeader resolves the Authorization header. present is false when no bearer token was sent.
func (jm *JWTManager) identityFromHeader(c *gin.Context) (identity schemas.Identity, present bool, err error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return identity, false, nil
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return identity, true, ErrTokenInvalid
	}

	claims, err := jm.ValidateJWT(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil {
		return identity, true, err
	}

	identity.UserID = uuid.MustParse(claims.Subject)
	identity.Username = claims.Username
	return identity, true, nil
}

// JWTMiddleware rejects requests without a valid bearer token and attaches the caller's identity otherwise.
// Every verification failure is answered with the same 401.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, present, err := jm.identityFromHeader(c)
		if !present {
			utils.WriteAndLogError(c, goerrors.MissingToken, errors.New("no bearer token"))
			return
		}
		if err != nil {
			utils.WriteAndLogError(c, goerrors.InvalidToken, err)
			return
		}

		utils.SetIdentity(c, identity)
		c.Next()
	}
}

// OptionalJWTMiddleware attaches the identity when a token is sent. A token that is sent but invalid is still
// rejected, so clients notice an expired session.
func (jm *JWTManager) OptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, present, err := jm.identityFromHeader(c)
		if present && err != nil {
			utils.WriteAndLogError(c, goerrors.InvalidToken, err)
			return
		}
		if present {
			utils.SetIdentity(c, identity)
		}
		c.Next()
	}
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err := saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file, readable by the owner only.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(append([]byte{}, privateKey...), publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	privateKey := ed25519.PrivateKey(keyPairBytes[:ed25519.PrivateKeySize])
	publicKey := ed25519.PublicKey(keyPairBytes[ed25519.PrivateKeySize:])
	return privateKey, publicKey, nil
}
