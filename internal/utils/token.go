package utils

import (
	"github.com/google/uuid"
)

// GenerateInvitationToken creates an opaque, unguessable bearer token for
// an invitation link.
func GenerateInvitationToken() string {
	return uuid.New().String()
}
