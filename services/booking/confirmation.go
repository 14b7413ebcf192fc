package booking

import "medibook/models"

// BookingSummary is the human-readable review of a draft booking shown on
// the confirmation step. It is a pure projection; it never mutates the
// draft.
type BookingSummary struct {
	DoctorName   string                 `json:"doctorName"`
	Specialty    string                 `json:"specialty"`
	Branch       string                 `json:"branch"`
	Date         string                 `json:"date"`
	Time         string                 `json:"time"`
	Type         models.AppointmentType `json:"type"`
	Reason       string                 `json:"reason,omitempty"`
	Requirements []string               `json:"requirements,omitempty"`
}

// SummarizeDraft projects every non-empty field of the draft into a summary.
func SummarizeDraft(draft models.DraftBooking) BookingSummary {
	summary := BookingSummary{
		Date:         draft.Date,
		Time:         draft.Time,
		Type:         draft.Type,
		Reason:       draft.Reason,
		Requirements: append([]string(nil), draft.Requirements...),
	}
	if draft.Doctor != nil {
		summary.DoctorName = draft.Doctor.Name
		summary.Specialty = draft.Doctor.Specialty
		summary.Branch = draft.Doctor.Branch
	}
	return summary
}
