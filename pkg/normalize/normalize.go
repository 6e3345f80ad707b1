package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text normaliza una cadena para búsqueda: minúsculas, sin acentos, sin
// espacios sobrantes. "Café Crème " -> "cafe creme".
func Text(s string) string {
	out, _, err := transform.String(unaccent, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
