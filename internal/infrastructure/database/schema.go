package database

import (
	"fmt"

	"patient-study-api/internal/domain/entity"

	"gorm.io/gorm"
)

// Models lists every persisted entity in creation order
func Models() []interface{} {
	return []interface{}{
		&entity.Patient{},
		&entity.Doctor{},
		&entity.Study{},
		&entity.StudyDoctor{},
		&entity.PatientDoctorStudy{},
		&entity.Measurement{},
		&entity.AuditLog{},
	}
}

// AutoMigrate creates missing tables, columns and indexes. It never drops anything.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}
	return nil
}
