package doctorRepo

import "medibook/models"

// DoctorRepository defines methods for doctor directory data access.
type DoctorRepository interface {
	// GetByID retrieves a doctor by its unique ID.
	GetByID(id string) (*models.Doctor, error)
	// GetAll retrieves the full doctor directory.
	GetAll() ([]models.Doctor, error)
	// GetBySpecialty returns doctors practicing a specific specialty.
	GetBySpecialty(specialty string) ([]models.Doctor, error)
	// Create inserts a new doctor record.
	Create(doctor *models.Doctor) error
	// Update modifies an existing doctor record.
	Update(doctor *models.Doctor) error
	// Delete removes a doctor record by its ID.
	Delete(id string) error
}
