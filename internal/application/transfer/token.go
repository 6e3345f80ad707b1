package transfer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var tokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newToken genera el token de entrega de un traslado: 160 bits de
// crypto/rand codificados en base32 minúscula (32 caracteres). El token es
// un secreto portador de un solo uso; la unicidad por tenant la garantiza el
// índice de la tabla y el reintento en Create.
func newToken() (string, error) {
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return strings.ToLower(tokenEncoding.EncodeToString(b[:])), nil
}
