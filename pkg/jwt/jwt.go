package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// El token de acceso y el de refresco comparten este mismo conjunto de claims;
// lo que cambia entre ambos es el secreto de firma y la vigencia.
type Claims struct {
	jwt.RegisteredClaims
	Username      string `json:"username"`
	EmpresaID     string `json:"empresa_id"`
	EmpresaCodigo string `json:"empresa_codigo"`
	Rol           string `json:"rol"` // "admin" | "lider_equipo" | "tecnico"
}

// Payload datos de la aplicación que viajan en el token.
type Payload struct {
	UserID        string
	Username      string
	EmpresaID     string
	EmpresaCodigo string
	Rol           string
}

// Generate genera un token JWT firmado con el secreto y la vigencia indicados.
func Generate(secret, issuer string, ttl time.Duration, p Payload) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:      p.Username,
		EmpresaID:     p.EmpresaID,
		EmpresaCodigo: p.EmpresaCodigo,
		Rol:           p.Rol,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token contra el secreto dado y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
