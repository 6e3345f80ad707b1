package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware construya el principal sin
// consultar la base; SupportUntil solo aparece en tokens del rol support y
// acota su ventana de acceso de solo lectura.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string     `json:"user_id"`
	TenantID     string     `json:"tenant_id"`
	Role         string     `json:"role"` // super_admin, pdg, dg, manager_stock, caissier, ecom_manager, ecom_ops, support
	SupportUntil *time.Time `json:"support_until,omitempty"`
}

// Generate genera un token JWT firmado con userID, tenantID y role.
// supportUntil es nil salvo para tokens del rol support.
func Generate(secret, userID, tenantID, role, issuer string, supportUntil *time.Time, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:       userID,
		TenantID:     tenantID,
		Role:         role,
		SupportUntil: supportUntil,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims de la aplicación.
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
