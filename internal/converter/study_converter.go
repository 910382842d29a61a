package converter

import (
	"time"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
)

// DateLayout is the wire format of study start and end dates
const DateLayout = "2006-01-02"

// StudyToResponse converts a Study entity to StudyResponse DTO
func StudyToResponse(study *entity.Study) *dto.StudyResponse {
	if study == nil {
		return nil
	}

	return &dto.StudyResponse{
		ID:          study.ID,
		Version:     study.Version,
		Name:        study.Name,
		Description: study.Description,
		StartDate:   formatDate(study.StartDate),
		EndDate:     formatDate(study.EndDate),
		CreatedAt:   study.CreatedAt,
		UpdatedAt:   study.UpdatedAt,
	}
}

func StudiesToResponses(studies []entity.Study) []dto.StudyResponse {
	responses := make([]dto.StudyResponse, len(studies))
	for i := range studies {
		responses[i] = *StudyToResponse(&studies[i])
	}
	return responses
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
