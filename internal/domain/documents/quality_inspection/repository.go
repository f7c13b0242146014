package quality_inspection

import (
	"context"

	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/documents"
)

// Repository stores inspections with their readings.
type Repository = documents.Repository[*QualityInspection]

// ReadingSource serves inspection readings straight from the repository,
// whatever the inspection's state.
type ReadingSource struct {
	repo Repository
}

// NewReadingSource creates a composition.InspectionReader over repo.
func NewReadingSource(repo Repository) *ReadingSource {
	return &ReadingSource{repo: repo}
}

// GetReadings implements composition.InspectionReader.
func (r *ReadingSource) GetReadings(ctx context.Context, inspectionName string) ([]composition.Reading, error) {
	qi, err := r.repo.GetByName(ctx, inspectionName)
	if err != nil {
		return nil, err
	}
	return qi.CompositionReadings(), nil
}

var _ composition.InspectionReader = (*ReadingSource)(nil)
