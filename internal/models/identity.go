package models

// IdentityKind distinguishes authenticated users from device-local anonymous ones
type IdentityKind string

const (
	// IdentityAuthenticated is a user known to the external auth system
	IdentityAuthenticated IdentityKind = "authenticated"

	// IdentityAnonymous is a device-local identity minted by the client
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the caller identity resolved once per request and passed
// explicitly into every operation.
type Identity struct {
	// Kind says how the identity was established
	Kind IdentityKind

	// UserID is the stable ID used for membership, votes and presence
	UserID string
}

// Anonymous reports whether the identity is device-local.
func (i Identity) Anonymous() bool {
	return i.Kind == IdentityAnonymous
}
