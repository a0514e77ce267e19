package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emite y valida tokens de sesión firmados.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	revoked RevokedTokenStore
}

// SessionClaims es el payload del token de sesión.
type SessionClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// sessionTTL es fijo: 7 días desde la emisión, no configurable por llamada.
const sessionTTL = 7 * 24 * time.Hour

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret:  []byte(secret),
		ttl:     sessionTTL,
		issuer:  "deepfake-guard",
		revoked: NewMemoryRevokedTokenStore(),
	}
}

func NewTokenServiceWithStore(secret string, revoked RevokedTokenStore) *TokenService {
	svc := NewTokenService(secret)
	if revoked != nil {
		svc.revoked = revoked
	}
	return svc
}

// Issue firma un token de sesión para el usuario indicado.
func (s *TokenService) Issue(userID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	if userID <= 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida firma, expiración y revocación, y devuelve el userID.
// Nunca devuelve un userID para un token inválido.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	if len(s.secret) == 0 {
		return 0, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return 0, ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return 0, err
	}
	if !s.isValidClaims(claims) {
		return 0, ErrTokenInvalid
	}
	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(claims.ID)
		if err != nil || revoked {
			return 0, ErrTokenInvalid
		}
	}
	return claims.UserID, nil
}

// Revoke invalida el token presentado hasta su expiración natural.
func (s *TokenService) Revoke(tokenString string) error {
	if len(s.secret) == 0 {
		return ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return err
	}
	if !s.isValidClaims(claims) || claims.ID == "" {
		return ErrTokenInvalid
	}
	if s.revoked == nil {
		return ErrTokenInvalid
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.revoked.Revoke(claims.ID, ttl)
}

func (s *TokenService) parseToken(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims SessionClaims) bool {
	if claims.UserID <= 0 {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
