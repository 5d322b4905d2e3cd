package upstream

import (
	"fmt"
	"strings"
)

// TagAlphabet lists every character the game uses in clan and player tags.
const TagAlphabet = "0289PYLQGRJCUV"

// NormalizeTag returns the canonical "#XXXX" form of a clan or player tag.
// Whitespace anywhere in the input is dropped.
func NormalizeTag(tag string) (string, error) {
	body := strings.ToUpper(strings.Join(strings.Fields(tag), ""))
	body = strings.TrimPrefix(body, "#")
	if body == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	for _, r := range body {
		if !strings.ContainsRune(TagAlphabet, r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidTag, tag, r)
		}
	}
	return "#" + body, nil
}
