package service

// InitialPasswordPolicy supplies the plaintext initial password for entity
// types whose credentials are assigned by the service rather than chosen by
// the caller. The same policy backs password resets.
type InitialPasswordPolicy interface {
	// NewPassword returns the plaintext to assign. Fixed policies return a
	// constant; generating policies return a fresh random password per call.
	NewPassword() (string, error)
}
