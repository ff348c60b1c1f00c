// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/planora/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateUserToken creates a bearer token for a user: "<user id>.<signature>".
// The signature is an HMAC of the user id, so tokens need no storage.
func GenerateUserToken(userID models.ID, salt string) string {
	return string(userID) + "." + sign(string(userID), salt)
}

// ValidateUserToken checks the token signature and returns the user id
func ValidateUserToken(token, salt string) (models.ID, error) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	userID, signature := token[:i], token[i+1:]

	expected := sign(userID, salt)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", ErrInvalidToken
	}
	return models.ID(userID), nil
}

func sign(value, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// CanFinalize reports whether actorID may finalize the event's polls:
// the event owner, or a member holding the owner or manager role
func CanFinalize(actorID models.ID, event models.Event, memberships []models.Membership) bool {
	return hasManagerRights(actorID, event, memberships)
}

// CanManageMembers uses the same rule as CanFinalize
func CanManageMembers(actorID models.ID, event models.Event, memberships []models.Membership) bool {
	return hasManagerRights(actorID, event, memberships)
}

func hasManagerRights(actorID models.ID, event models.Event, memberships []models.Membership) bool {
	if actorID == "" {
		return false
	}
	if event.OwnerID == actorID {
		return true
	}
	for _, m := range memberships {
		if m.UserID != actorID || m.EventID != event.ID {
			continue
		}
		if m.Role == models.RoleOwner || m.Role == models.RoleManager {
			return true
		}
	}
	return false
}

// IsValidRole reports whether role is owner, manager or member
func IsValidRole(role string) bool {
	switch role {
	case models.RoleOwner, models.RoleManager, models.RoleMember:
		return true
	}
	return false
}
