package model

import (
	"github.com/google/uuid"
)

type Id string

func (id Id) Before(other Id) bool {
	return id < other
}

func (id Id) MarshalBinary() ([]byte, error) {
	return []byte(id), nil
}

func GenerateId() Id {
	return Id(uuid.NewString())
}
