// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role required
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAccess:
		return "access"
	case SecurityAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"auth.register": SecurityPublic,
	"auth.login":    SecurityPublic,
	"health":        SecurityPublic,

	// Profile - Access Protected
	"users.me": SecurityAccess,

	// Admin - users
	"admin.users.list": SecurityAdmin,

	// Admin - suits
	"admin.suits.list":   SecurityAdmin,
	"admin.suits.create": SecurityAdmin,
	"admin.suits.update": SecurityAdmin,
	"admin.suits.delete": SecurityAdmin,

	// Admin - rentals
	"admin.rentals.list":   SecurityAdmin,
	"admin.rentals.create": SecurityAdmin,
	"admin.rentals.update": SecurityAdmin,
	"admin.rentals.delete": SecurityAdmin,

	// Catalogue and client views - Access Protected
	"suits.list":         SecurityAccess,
	"suits.get":          SecurityAccess,
	"suits.availability": SecurityAccess,
	"rentals.mine":       SecurityAccess,
	"rentals.get":        SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
