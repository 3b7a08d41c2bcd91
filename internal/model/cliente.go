package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente es el comprador de uno o más lotes.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;index"`
	DNI       string    `gorm:"uniqueIndex;not null;column:dni"`
	Email     *string
	Telefono  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
