package construct

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

const (
	// hiddenID is dropped from both the human part and the hash.
	hiddenID = "Default"
	// hiddenFromHumanID is dropped from the human part only, so that the primary
	// resource of a construct gets a short readable name.
	hiddenFromHumanID = "Resource"

	hashLength     = 8
	maxHumanLength = 255 - hashLength
)

// makeLogicalID builds a template-unique logical ID from the path components
// below the stack.
func makeLogicalID(components []string) string {
	var kept []string
	for _, c := range components {
		if c != hiddenID {
			kept = append(kept, c)
		}
	}

	if len(kept) == 1 {
		candidate := removeNonAlphanumeric(kept[0])
		if candidate != "" && len(candidate) <= maxHumanLength {
			return candidate
		}
	}

	hash := pathHash(kept)
	human := removeDupes(filterHuman(kept))
	prefix := removeNonAlphanumeric(strings.Join(human, ""))
	if len(prefix) > maxHumanLength {
		prefix = prefix[:maxHumanLength]
	}
	return prefix + hash
}

func pathHash(components []string) string {
	sum := md5.Sum([]byte(strings.Join(components, PathSeparator)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:hashLength]
}

func filterHuman(components []string) []string {
	var out []string
	for _, c := range components {
		if c != hiddenFromHumanID {
			out = append(out, c)
		}
	}
	return out
}

// removeDupes collapses consecutive repeated components ("a/a/b" -> "a/b").
func removeDupes(components []string) []string {
	var out []string
	for _, c := range components {
		if len(out) == 0 || !strings.HasSuffix(out[len(out)-1], c) {
			out = append(out, c)
		}
	}
	return out
}

func removeNonAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
