package rbac

import "strings"

// Route prefix sets used by the HTTP guard. Membership is by exact match or
// path-segment prefix, so "/admin" also covers "/admin/users" but not
// "/administrator".
var (
	// ProtectedPrefixes require an authenticated identity.
	ProtectedPrefixes = []string{"/dashboard", "/profile", "/admin", "/api/protected"}

	// AdminPrefixes additionally require the admin role.
	AdminPrefixes = []string{"/admin"}

	// ManagerPrefixes require the manager or admin role.
	ManagerPrefixes = []string{"/analytics", "/departments"}

	// AuthPrefixes are the sign-in pages; authenticated users are bounced
	// off them to the dashboard.
	AuthPrefixes = []string{"/login", "/register"}
)

// matchesPrefix reports whether path equals prefix or sits beneath it.
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsProtectedRoute reports whether the path requires authentication.
func IsProtectedRoute(path string) bool { return matchesAny(path, ProtectedPrefixes) }

// IsAdminRoute reports whether the path requires the admin role.
func IsAdminRoute(path string) bool { return matchesAny(path, AdminPrefixes) }

// IsManagerRoute reports whether the path requires the manager or admin role.
func IsManagerRoute(path string) bool { return matchesAny(path, ManagerPrefixes) }

// IsAuthRoute reports whether the path is a sign-in page.
func IsAuthRoute(path string) bool { return matchesAny(path, AuthPrefixes) }
