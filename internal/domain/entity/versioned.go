package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRequiredField is returned by the entity constructors when a mandatory value is blank
var ErrRequiredField = errors.New("required field is missing")

// ErrMissingID is returned when an existing entity is rehydrated without its id
var ErrMissingID = errors.New("existing entity requires an id")

// Versioned carries the identity and optimistic-lock counter shared by every entity.
// IDs are random UUIDs so sequential database keys are never exposed.
type Versioned struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version   int       `gorm:"not null" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the id of a new row and resets its version
func (v *Versioned) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.Version = 0
	return nil
}

// IsNew reports whether the entity was built without an id, i.e. not yet persisted
func (v *Versioned) IsNew() bool {
	return v.ID == uuid.Nil
}

func existing(id uuid.UUID, version int) (Versioned, error) {
	if id == uuid.Nil {
		return Versioned{}, ErrMissingID
	}
	return Versioned{ID: id, Version: version}, nil
}

func requireText(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	// map order is random, keep messages stable
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrRequiredField, strings.Join(missing, ", "))
}
