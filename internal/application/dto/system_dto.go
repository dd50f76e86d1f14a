package dto

import "time"

// HealthDTO respuesta de GET /api/health.
type HealthDTO struct {
	Status         string    `json:"status"`
	StoreConnected bool      `json:"storeConnected"`
	Backend        string    `json:"backend"`
	StoreError     string    `json:"storeError,omitempty"`
	CacheState     string    `json:"cacheState"`
	Environment    string    `json:"environment"`
	Timestamp      time.Time `json:"timestamp"`
}

// UpdatesDTO respuesta de GET /api/check-updates.
type UpdatesDTO struct {
	HasUpdates  bool       `json:"hasUpdates"`
	RecentCount int64      `json:"recentCount"`
	LastUpdate  *time.Time `json:"lastUpdate"`
	Timestamp   time.Time  `json:"timestamp"`
}

// SystemInfoDTO respuesta de GET /api/system/info.
type SystemInfoDTO struct {
	Environment      string `json:"environment"`
	AppName          string `json:"appName"`
	Backend          string `json:"backend"`
	BackupPath       string `json:"backupPath"`
	BackupAccessible bool   `json:"backupAccessible"`
	GoVersion        string `json:"goVersion"`
	Platform         string `json:"platform"`
	WorkingDir       string `json:"workingDir"`
}
