package utils

import (
	"fmt"
	"os"
)

// StoreConfig holds the remote data-store endpoint and the privileged
// service credential the pipeline writes with.
type StoreConfig struct {
	URL        string // e.g. https://<project>.supabase.co
	ServiceKey string
}

// LoadStoreConfig reads the required store configuration from the
// environment. Both values are mandatory: the pipeline must refuse to run
// without them rather than degrade.
func LoadStoreConfig() (StoreConfig, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")

	if url == "" {
		return StoreConfig{}, fmt.Errorf("SUPABASE_URL is not set")
	}
	if key == "" {
		return StoreConfig{}, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is not set")
	}
	return StoreConfig{URL: url, ServiceKey: key}, nil
}
