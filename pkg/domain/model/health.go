package model

// HealthStatus represents the health check status
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`

	// PendingReleases counts accepted releases that have not finished yet
	PendingReleases int `json:"pending_releases"`
}
