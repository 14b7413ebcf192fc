package models

// PatientContext is the identity a booking session acts on behalf of. It is
// supplied explicitly by the caller (the auth middleware at the HTTP
// boundary) rather than read from ambient state, so the booking core stays
// testable in isolation.
type PatientContext struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	DeviceID  string `json:"deviceId,omitempty"`
}
