package model

import (
	"fmt"
	"strings"
)

// GatewayError is returned when the payment API answers with a non-success status.
type GatewayError struct {
	StatusCode int
	Messages   []string
}

func (e *GatewayError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}
