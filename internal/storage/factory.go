package storage

import (
	"fmt"

	"github.com/balenascatcher/bilge-simulasyon/internal/config"
)

// New builds the storage backend named by config. The local backend
// keeps the workbook on disk and is the default for single-machine
// classroom deployments.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Type {
	case "", "local":
		return NewLocalStorage(cfg.Storage.Local.Dir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}
