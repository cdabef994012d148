package config

import "os"

// SyncConfig points at the optional habit history sync backend. Sync is
// disabled unless both the URL and API key are set.
type SyncConfig struct {
	BaseURL string
	APIKey  string
	UserID  string
}

func LoadSyncConfig() *SyncConfig {
	return &SyncConfig{
		BaseURL: os.Getenv("SYNC_BASE_URL"),
		APIKey:  os.Getenv("SYNC_API_KEY"),
		UserID:  os.Getenv("SYNC_USER_ID"),
	}
}

func (c *SyncConfig) Enabled() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != "" && c.UserID != ""
}
