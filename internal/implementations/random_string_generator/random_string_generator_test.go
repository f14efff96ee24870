package randomstringgenerator

import (
	"encoding/hex"
	"testing"
)

func TestSecretGenerator(t *testing.T) {
	generator := NewGenerator(0)
	secrets := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		secret, err := generator.GenerateSecret()
		if err != nil {
			t.Fatalf("could not generate secret: %v", err)
		}
		if len(secret) != DEFAULT_SECRET_SIZE*2 {
			t.Fatalf("unexpected secret length %d", len(secret))
		}
		if _, err := hex.DecodeString(secret); err != nil {
			t.Fatalf("secret %v is not hex encoded", secret)
		}
		if _, ok := secrets[secret]; ok {
			t.Fatalf("secret %v already exists", secret)
		}
		secrets[secret] = struct{}{}
	}
}

func TestCustomSize(t *testing.T) {
	secret, err := NewGenerator(4).GenerateSecret()
	if err != nil {
		t.Fatal(err)
	}
	if len(secret) != 8 {
		t.Fatalf("unexpected secret length %d", len(secret))
	}
}
