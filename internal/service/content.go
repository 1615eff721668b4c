package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/sakif/emoji-feed/internal/apperror"
)

// MaxContentLength is the post length cap, counted in runes.
const MaxContentLength = 280

// ContentRule validates post content. The length bounds are structural and
// always enforced by the service; the rule decides what the content may
// contain. Emoji-only is the shipped product policy, not a requirement of
// the service itself.
type ContentRule func(content string) error

// EmojiOnly rejects content containing anything but emoji.
func EmojiOnly(content string) error {
	for _, r := range content {
		if !isEmojiRune(r) {
			return apperror.ValidationFailed("content", "only emojis are allowed")
		}
	}
	return nil
}

// AnyContent accepts all content within the length bounds.
func AnyContent(string) error {
	return nil
}

// validateContent applies the structural bounds and then the rule.
func validateContent(content string, rule ContentRule) error {
	if content == "" {
		return apperror.ValidationFailed("content", "content is required")
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}
	return rule(content)
}

// isEmojiRune reports whether r belongs to the emoji blocks we accept,
// including the joiners and modifiers that composed emoji are built from
// (ZWJ sequences, skin tones, variation selectors, flags, keycaps).
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and stars (⭐, ⬆)
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case r == 0xFE0F || r == 0xFE0E: // variation selectors
		return true
	case r == 0x20E3: // combining keycap
		return true
	case r >= '0' && r <= '9', r == '#', r == '*': // keycap bases
		return true
	default:
		return false
	}
}
