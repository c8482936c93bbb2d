package httpapi

// maxBodyBytes caps request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes configures the maximum request body size; n <= 0 restores
// the 1 MiB default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
)

// SetCORSOptions configures CORS behavior for the HTTP server. The dashboard
// front end runs on a different origin in development, so this is usually on.
func SetCORSOptions(enabled bool, origins []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
}
