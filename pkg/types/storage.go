package types

// StorageStats reports where the service keeps its data on disk and how
// many bytes each part uses. Missing files count as zero.
type StorageStats struct {
	DatabaseBytes    int64  `json:"databaseBytes"`
	RecoveryBytes    int64  `json:"recoveryBytes"`
	PreferencesBytes int64  `json:"preferencesBytes"`
	TotalBytes       int64  `json:"totalBytes"`
	DatabasePath     string `json:"databasePath"`
	RecoveryPath     string `json:"recoveryPath"`
	PreferencesPath  string `json:"preferencesPath"`
}
