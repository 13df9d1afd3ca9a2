package base

// Handler handles base HTTP requests (root, health, version)
type Handler struct{}

// APIInfo represents the root API discovery response
type APIInfo struct {
	Name        string           `json:"name" example:"userd"`
	Description string           `json:"description" example:"User Management API Server"`
	Version     string           `json:"version" example:"1.0.0"`
	APIVersions []string         `json:"api_versions" example:"v1"`
	Endpoints   APIInfoEndpoints `json:"endpoints"`
}

// APIInfoEndpoints contains the available API endpoints
type APIInfoEndpoints struct {
	Health  string        `json:"health" example:"/v1/health"`
	Version string        `json:"version" example:"/v1/version"`
	Users   string        `json:"users" example:"/v1/users"`
	Exports string        `json:"exports,omitempty" example:"/v1/exports"`
	Docs    string        `json:"docs" example:"/swagger/index.html"`
	Auth    AuthEndpoints `json:"auth"`
}

// AuthEndpoints contains the authentication endpoints
type AuthEndpoints struct {
	Token    string `json:"token" example:"/auth/token"`
	Validate string `json:"validate" example:"/auth/validate"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// VersionResponse represents the version information response
type VersionResponse struct {
	Version        string `json:"version" example:"v1.0.0-4f9f297"`
	ReleaseVersion string `json:"release_version" example:"1.0.0"`
	BuildDate      string `json:"build_date" example:"2024-01-15T10:30:00Z"`
	GitCommit      string `json:"git_commit" example:"4f9f297"`
	GoVersion      string `json:"go_version" example:"go1.24"`
}
