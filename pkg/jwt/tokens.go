package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claims represents the claims carried by access tokens. Subject is the user email.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenInfo represents generated token information
type TokenInfo struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// KeyManager issues and validates RS256 tokens
type KeyManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
	logger     *zap.Logger
}

// NewKeyManager loads or generates the RSA key pair at paths
func NewKeyManager(paths KeyPaths, issuer string, ttl time.Duration, logger *zap.Logger) (*KeyManager, error) {
	key, generated, err := LoadOrGenerateKeys(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load or generate RSA keys: %w", err)
	}

	logger.Info("JWT key manager initialized",
		zap.String("issuer", issuer),
		zap.Duration("ttl", ttl),
		zap.Bool("generated", generated),
		zap.String("public_key_path", paths.PublicKeyPath))

	return NewKeyManagerFromKey(key, issuer, ttl, logger), nil
}

// NewKeyManagerFromKey wraps an already loaded private key
func NewKeyManagerFromKey(key *rsa.PrivateKey, issuer string, ttl time.Duration, logger *zap.Logger) *KeyManager {
	return &KeyManager{
		privateKey: key,
		publicKey:  &key.PublicKey,
		issuer:     issuer,
		ttl:        ttl,
		logger:     logger,
	}
}

// PublicKey returns the verification key
func (k *KeyManager) PublicKey() *rsa.PublicKey {
	return k.publicKey
}

// PublicKeyPEM returns the verification key in PEM format
func (k *KeyManager) PublicKeyPEM() ([]byte, error) {
	return EncodePublicKeyPEM(k.publicKey)
}

// IssueToken signs a new token for the given user
func (k *KeyManager) IssueToken(email, name string) (*TokenInfo, error) {
	now := time.Now()
	expiresAt := now.Add(k.ttl)

	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    k.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(k.privateKey)
	if err != nil {
		k.logger.Error("Failed to sign JWT token", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenInfo{
		Token:     signed,
		JTI:       claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken verifies the signature, expiry and issuer of a token and returns its claims
func (k *KeyManager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return k.publicKey, nil
	}, jwt.WithIssuer(k.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("missing JTI claim")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	return claims, nil
}
