package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	ID            string // provider-scoped unique user identifier
	Username      string
	Discriminator string
	Avatar        string
	Email         string

	// Provider credentials travel with the identity so the dashboard can
	// act on the user's behalf later.
	AccessToken  string
	RefreshToken string
}
