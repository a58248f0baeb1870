package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique analysis run ID
func NewRunID() string {
	return uuid.New().String()
}

// IsRunID reports whether id has the shape of a run ID
func IsRunID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
