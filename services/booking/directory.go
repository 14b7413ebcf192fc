package booking

import (
	"fmt"
	"strings"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
)

// DirectoryService exposes the searchable doctor directory.
type DirectoryService interface {
	ListDoctors(filter models.DoctorFilter) ([]models.Doctor, error)
}

// DefaultDirectoryService implements DirectoryService over the doctor
// repository. The collection is fetched whole and filtered in memory; the
// directory is small and the filters are independent predicates.
type DefaultDirectoryService struct {
	DoctorRepo doctorRepo.DoctorRepository
}

func (s *DefaultDirectoryService) ListDoctors(filter models.DoctorFilter) ([]models.Doctor, error) {
	doctors, err := s.DoctorRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor directory: %w", err)
	}
	return FilterDoctors(doctors, filter), nil
}

// FilterDoctors applies the three directory filters, preserving the input
// order. An empty query matches every doctor; "all" (or empty) specialty and
// branch are identity filters. No match yields an empty slice, not an error.
func FilterDoctors(doctors []models.Doctor, filter models.DoctorFilter) []models.Doctor {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	matched := make([]models.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if query != "" && !strings.Contains(strings.ToLower(d.Name), query) {
			continue
		}
		if !matchesChoice(d.Specialty, filter.Specialty) {
			continue
		}
		if !matchesChoice(d.Branch, filter.Branch) {
			continue
		}
		matched = append(matched, d)
	}
	return matched
}

func matchesChoice(value, choice string) bool {
	if choice == "" || strings.EqualFold(choice, "all") {
		return true
	}
	return strings.EqualFold(value, choice)
}
