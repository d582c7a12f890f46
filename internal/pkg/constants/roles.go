package constants

const (
	RoleStartup  = "startup"
	RoleInvestor = "investor"
	RoleAdmin    = "admin"
)

// ValidRoles is the set of allowed DB enum values for user role.
var ValidRoles = []string{RoleStartup, RoleInvestor, RoleAdmin}

// RegistrationRoles are the roles a user may pick at sign-up; admin
// accounts are seeded, never self-registered.
var RegistrationRoles = []string{RoleStartup, RoleInvestor}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsRegistrationRole returns true if role may be chosen at registration.
func IsRegistrationRole(role string) bool {
	for _, r := range RegistrationRoles {
		if r == role {
			return true
		}
	}
	return false
}
