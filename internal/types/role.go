package types

// UserRole is the acting user's role as supplied by the identity provider.
type UserRole string

const (
	UserRoleUnknown UserRole = ""
	// UserRolePlatformAdmin is the platform operator scope. Required for plan
	// catalog and billing settings mutations and for invoice reopening.
	UserRolePlatformAdmin UserRole = "platform_admin"
	// UserRoleCompanyAdmin administers a single company. Required for invoice
	// lifecycle mutations on that company's invoices.
	UserRoleCompanyAdmin UserRole = "company_admin"
	// UserRoleGuard is field personnel with no billing access.
	UserRoleGuard UserRole = "guard"
)

func (r UserRole) String() string {
	return string(r)
}

// AuthProvider identifies the backing identity provider.
type AuthProvider string

const (
	AuthProviderSupabase      AuthProvider = "supabase"
	AuthProviderSecureCommand AuthProvider = "securecommand"
)
