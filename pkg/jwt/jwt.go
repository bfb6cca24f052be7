package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más la identidad de la sesión.
// Role y BusinessID van en el token para que otros componentes decidan sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	BusinessID *int64 `json:"business_id"`
}

// Session datos que se firman en el token.
type Session struct {
	ID         int64
	Username   string
	Role       string
	BusinessID *int64
}

// Generate genera un token HS256 firmado con la sesión, vigente expMinutes minutos.
func Generate(secret string, s Session, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(s.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     s.ID,
		Username:   s.Username,
		Role:       s.Role,
		BusinessID: s.BusinessID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, algoritmo y expiración, y devuelve la sesión.
func Parse(secret, tokenString string) (*Session, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Session{
		ID:         claims.UserID,
		Username:   claims.Username,
		Role:       claims.Role,
		BusinessID: claims.BusinessID,
	}, nil
}
