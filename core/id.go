package core

import (
	"crypto/rand"
	"encoding/hex"
)

func newCycleID() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "cycle-unknown"
	}
	return hex.EncodeToString(buf[:])
}
