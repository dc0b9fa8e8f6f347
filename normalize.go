package mailscout

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and removes combining marks, so that any
// diacritic the transliteration table misses is stripped rather than dropping
// the whole letter.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName converts an arbitrary person-name token to a lowercase,
// email-safe ASCII string. Letters with diacritics transliterate to their
// nearest ASCII equivalent ("Şule" -> "sule", never "ule"); anything left
// outside [a-z0-9] is removed. The function is idempotent and never fails:
// unmappable characters are dropped.
func NormalizeName(name string) string {
	name = unidecode.Unidecode(name)

	if out, _, err := transform.String(stripMarks, name); err == nil {
		name = out
	}

	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
