package validation

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

const defaultMaxMessageLength = 500

func NormalizeMessage(message string) string {
	return strings.TrimSpace(message)
}

// ValidateMessage checks an optional join-request message; empty is
// allowed.
func ValidateMessage(message string) bool {
	return utf8.RuneCountInString(NormalizeMessage(message)) <= MaxMessageLength()
}

func MaxMessageLength() int {
	maxStr := os.Getenv("JOIN_MESSAGE_MAX_LENGTH")
	if maxStr == "" {
		return defaultMaxMessageLength
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return defaultMaxMessageLength
	}
	return max
}

// ValidateCapacity checks a participant limit supplied by the board
// service. The founder takes one seat, so anything below 1 is
// meaningless.
func ValidateCapacity(capacity int) bool {
	return capacity >= 1
}

func ValidateCategory(category string) bool {
	return len(strings.TrimSpace(category)) <= 50
}
