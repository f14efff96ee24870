package identity

import (
	"accounts/internal/core/domain/user"
	"testing"

	"github.com/segmentio/ksuid"
)

func TestIDGenerator(t *testing.T) {
	generator := NewKSUID()
	ids := make(map[user.ID]struct{})
	for i := 0; i < 100; i++ {
		id := generator.GenerateID()
		if string(id) == "" {
			t.Fatal("id must not be empty")
		}
		if _, err := ksuid.Parse(string(id)); err != nil {
			t.Fatalf("id %v is not a valid KSUID: %v", id, err)
		}
		if _, ok := ids[id]; ok {
			t.Fatalf("id %v already exists (%v)", id, ids)
		}
		ids[id] = struct{}{}
	}
}
