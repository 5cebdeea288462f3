package httpapi

const defaultMaxBodyBytes int64 = 10 << 20

// maxBodyBytes controls the maximum allowed request body size, including
// multipart uploads and fetched image URLs.
var maxBodyBytes = defaultMaxBodyBytes

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// requestTimeout controls the maximum duration a /predict or /generate
// request may run before timing out.
// Zero means no additional timeout beyond server/connection timeouts.
var requestTimeout = int64(0) // seconds

// SetRequestTimeoutSeconds sets the request timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = sec
}

// testInputPath is the example image served by GET /test.
var testInputPath string

// SetTestInput sets the example image used by GET /test. Empty disables the
// prediction and /test only reports readiness.
func SetTestInput(path string) { testInputPath = path }

// allowPrivateImageURLs lets image_url reach loopback, private and
// link-local addresses. Off by default.
var allowPrivateImageURLs bool

// SetAllowPrivateImageURLs toggles fetching image_url from non-public hosts.
func SetAllowPrivateImageURLs(v bool) { allowPrivateImageURLs = v }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
