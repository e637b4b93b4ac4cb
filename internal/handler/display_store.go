package handler

import (
	"github.com/drywaters/muadzin/internal/model"
	"github.com/google/uuid"
)

// DisplayStore defines the interface for display registry operations.
// This interface allows for easier testing with mock implementations.
type DisplayStore interface {
	Create(name string) (model.Display, error)
	Get(id uuid.UUID) (model.Display, error)
	List() []model.Display
	SetNext(id uuid.UUID, ev model.NextEvent) (model.Display, error)
	ClearNext(id uuid.UUID) error
	Delete(id uuid.UUID) error
}
