package randomstringgenerator

import (
	"crypto/rand"
	"encoding/hex"
)

const DEFAULT_SECRET_SIZE = 32

// Generator produces hex encoded secrets from a cryptographically secure source.
type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DEFAULT_SECRET_SIZE
	}
	return &Generator{size: size}
}

func (g *Generator) GenerateSecret() (string, error) {
	b := make([]byte, g.size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
