package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON
// and upload endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// previewRows caps the number of rows echoed back for an uploaded CSV.
var previewRows = 20

// SetPreviewRows configures the upload preview row cap.
func SetPreviewRows(n int) {
	if n <= 0 {
		previewRows = 20
		return
	}
	previewRows = n
}

// Paths of the optional page assets. Empty values disable the feature
// and its handlers fall back to informational states.
var (
	datasetPath   string
	animationPath string
)

// SetAssets configures the reference dataset and animation file paths.
func SetAssets(dataset, animation string) {
	datasetPath = dataset
	animationPath = animation
}

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
