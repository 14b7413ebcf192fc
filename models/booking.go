package models

import "time"

// AppointmentType enumerates the supported visit kinds.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow-up"
	TypeEmergency    AppointmentType = "emergency"
)

// Valid reports whether t is one of the known appointment types.
func (t AppointmentType) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency:
		return true
	}
	return false
}

// RequirementOptions is the fixed list of special requirements a patient may
// attach to a booking. Requirements outside this list are rejected.
var RequirementOptions = []string{
	"wheelchair access",
	"sign language interpreter",
	"quiet room",
	"extended consultation",
}

// DraftBooking is the in-progress appointment request assembled across the
// wizard steps. It is owned exclusively by the wizard and mutated only
// through wizard operations.
type DraftBooking struct {
	Doctor       *Doctor         `json:"doctor,omitempty"`
	Date         string          `json:"date,omitempty"` // "YYYY-MM-DD"
	Time         string          `json:"time,omitempty"` // slot label, e.g. "09:30"
	Type         AppointmentType `json:"type"`
	Reason       string          `json:"reason,omitempty"`
	Requirements []string        `json:"requirements,omitempty"`
}

// Complete reports whether the draft satisfies the terminal submit guard.
func (d DraftBooking) Complete() bool {
	return d.Doctor != nil && d.Date != "" && d.Time != ""
}

// HasRequirement reports membership in the draft's requirement set.
func (d DraftBooking) HasRequirement(req string) bool {
	for _, r := range d.Requirements {
		if r == req {
			return true
		}
	}
	return false
}

// Appointment represents a confirmed appointment record.
type Appointment struct {
	ID           string          `bson:"id" json:"id"`
	PatientID    string          `bson:"patient_id" json:"patientId"`
	PatientName  string          `bson:"patient_name" json:"patientName"`
	PatientEmail string          `bson:"patient_email,omitempty" json:"patientEmail,omitempty"`
	DoctorID     string          `bson:"doctor_id" json:"doctorId"`
	DoctorName   string          `bson:"doctor_name" json:"doctorName"`
	Date         string          `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time         string          `bson:"time" json:"time"` // slot label
	Type         AppointmentType `bson:"type" json:"type"`
	Reason       string          `bson:"reason,omitempty" json:"reason,omitempty"`
	Requirements []string        `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Status       string          `bson:"status" json:"status"` // e.g. "confirmed", "cancelled"
	CreatedAt    time.Time       `bson:"created_at" json:"createdAt"`
}
