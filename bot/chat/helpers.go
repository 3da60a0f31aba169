package chat

import (
	"strings"
	"unicode"
)

// NormalizeCommand lowercases the input and strips everything that is not a
// latin letter, digit or "ç", so keyword matching survives punctuation,
// spacing and emoji.
func NormalizeCommand(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if (r >= 'a' && r <= 'z') || unicode.IsDigit(r) || r == 'ç' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsConfirmation reports whether the normalized input is one of the accepted
// yes-words.
func IsConfirmation(normalized string) bool {
	switch normalized {
	case "sim", "s", "yes", "ok":
		return true
	}
	return false
}

// PhoneDigits strips every non-digit character.
func PhoneDigits(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// CanonicalChatId normalizes a user-supplied phone number into a transport
// chat id. The country prefix is stripped before the 10-15 digit window is
// applied, then re-added. Returns "" when the number is not plausible.
func CanonicalChatId(text, countryPrefix, suffix string) string {
	digits := PhoneDigits(text)
	if countryPrefix != "" && strings.HasPrefix(digits, countryPrefix) && len(digits) > len(countryPrefix) {
		digits = digits[len(countryPrefix):]
	}
	if len(digits) < 10 || len(digits) > 15 {
		return ""
	}
	return countryPrefix + digits + suffix
}

// WaLink renders a chat id as a clickable contact link for notifications.
func WaLink(chatID, suffix string) string {
	return "wa.me/" + strings.TrimSuffix(chatID, suffix)
}
