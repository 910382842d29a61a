package converter

import (
	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"

	"github.com/google/uuid"
)

// IDsToResponses converts ids to the {id} reference list used by association routes
func IDsToResponses(ids []uuid.UUID) []dto.IDResponse {
	responses := make([]dto.IDResponse, len(ids))
	for i, id := range ids {
		responses[i] = dto.IDResponse{ID: id}
	}
	return responses
}

func MeasurementToResponse(measurement *entity.Measurement) *dto.MeasurementResponse {
	if measurement == nil {
		return nil
	}

	return &dto.MeasurementResponse{
		ID:           measurement.ID,
		Version:      measurement.Version,
		AssignmentID: measurement.AssignmentID,
		Description:  measurement.Description,
		Timestamp:    measurement.Timestamp,
		Steps:        measurement.Steps,
	}
}

func MeasurementsToResponses(measurements []entity.Measurement) []dto.MeasurementResponse {
	responses := make([]dto.MeasurementResponse, len(measurements))
	for i := range measurements {
		responses[i] = *MeasurementToResponse(&measurements[i])
	}
	return responses
}
