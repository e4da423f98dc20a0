package validators

import (
	"strings"

	"realtimeChat/internal/errs"
)

// ValidateSendMessage rejects malformed send requests before any side
// effect happens.
func ValidateSendMessage(receiverID uint, content string) []error {
	var errors []error
	if receiverID == 0 {
		errors = append(errors, errs.ErrInvalidReceiver)
	}
	if strings.TrimSpace(content) == "" {
		errors = append(errors, errs.ErrEmptyContent)
	}
	return errors
}
