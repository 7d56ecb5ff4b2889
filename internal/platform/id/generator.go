package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque labels for locally minted references, such
// as the synthetic join-code stand-ins on forfeited games.
type Generator interface {
	NewLabel(prefix string) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewLabel(prefix string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return prefix + "-" + hex.EncodeToString(buf), nil
}
