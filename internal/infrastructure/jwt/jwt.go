package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const issuer = "inventoryauth"

type Service struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Service { return &Service{secret: []byte(secret), now: time.Now} }

// Claims carries the session values of a cookie-backed session.
type Claims struct {
	Values map[string]string `json:"vals"`
	jwt.RegisteredClaims
}

func (s *Service) Sign(values map[string]string, expiresIn time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Values: values,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if claims.Values == nil {
		claims.Values = map[string]string{}
	}
	return claims, nil
}
