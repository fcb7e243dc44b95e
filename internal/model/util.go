package model

import "github.com/google/uuid"

func CreateID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
