package store

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"

	"clipvault/internal/models"
)

// ContentHash computes the fast dedup hash over a clip's payloads, in the
// order they were captured.
func ContentHash(formats []models.Format) string {
	h := xxh3.New()
	for _, f := range formats {
		_, _ = h.Write([]byte(f.Name))
		_, _ = h.Write(f.Data)
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}

// Checksum computes the integrity checksum stored on the clip header.
func Checksum(formats []models.Format) string {
	h, _ := blake2b.New256(nil)
	for _, f := range formats {
		_, _ = h.Write(f.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
