package meta

import (
	"os"
	"strings"
	"unicode"
)

// expandEnv replaces every ${env.KEY} occurrence in value with the KEY
// environment variable (empty when unset). Malformed references stay
// literal.
func expandEnv(value string) string {
	const prefix = "${env."
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		startKey := i + idx + len(prefix)
		endKey := strings.IndexByte(value[startKey:], '}')
		if endKey < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[startKey : startKey+endKey]
		if !validEnvKey(key) {
			// Keep the prefix literal and rescan what follows it, a nested
			// reference may start inside the invalid one.
			b.WriteString(value[i+idx : startKey])
			i = startKey
			continue
		}
		b.WriteString(os.Getenv(key))
		i = startKey + endKey + 1
	}
	return b.String()
}

func validEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
