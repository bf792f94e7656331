package catalog

import (
	"hash/crc32"
	"strings"
)

// ComputeCRC32 hashes a string the way the game does: standard CRC-32
// over the UTF-8 bytes, reinterpreted as a signed 32-bit integer.
func ComputeCRC32(input string) int32 {
	return int32(crc32.ChecksumIEEE([]byte(input)))
}

// ExtractHashArgument returns the inner name of a HASH("name") call
// form. Single quotes and unquoted arguments are tolerated.
func ExtractHashArgument(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "HASH(") || !strings.HasSuffix(input, ")") {
		return "", false
	}
	content := strings.TrimSpace(input[len("HASH(") : len(input)-1])
	if len(content) >= 2 {
		first, last := content[0], content[len(content)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return content[1 : len(content)-1], true
		}
	}
	return content, true
}

// IsHashCall reports whether the text is a HASH(...) call form.
func IsHashCall(input string) bool {
	_, ok := ExtractHashArgument(input)
	return ok
}
