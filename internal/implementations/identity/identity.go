package identity

import (
	"accounts/internal/core/domain/user"

	"github.com/segmentio/ksuid"
)

// KSUID generates sortable user IDs.
type KSUID struct{}

func NewKSUID() *KSUID {
	return &KSUID{}
}

func (g *KSUID) GenerateID() user.ID {
	return user.ID(ksuid.New().String())
}
