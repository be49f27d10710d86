package model

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
)

// NewInviteCode returns a fresh unpredictable code. uuid.NewRandom draws from
// crypto/rand, so codes cannot be guessed from previously issued ones.
func NewInviteCode() string {
	id, _ := uuid.NewRandom()
	return base58.Encode(id[:])
}

// ValidIMEI reports whether s is a well-formed 15-digit IMEI.
func ValidIMEI(s string) bool {
	if len(s) != 15 {
		return false
	}
	return allDigits(s)
}

// ValidPin reports whether s is exactly four numeric digits.
func ValidPin(s string) bool {
	if len(s) != 4 {
		return false
	}
	return allDigits(s)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
