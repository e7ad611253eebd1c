package domain

// Ack is the generic acknowledgement returned by mutations whose payload the
// gateway does not interpret. Raw holds the server body unchanged.
type Ack struct {
	Success bool
	Message string
	Raw     []byte
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token string
	User  UserProfile
}

// ProfileResult is returned by profile reads and updates.
type ProfileResult struct {
	Success bool
	Message string
	User    *UserProfile
	Raw     []byte
}
