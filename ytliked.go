package ytliked

import (
	"ytliked/config"
	internal "ytliked/internal/storage"
	"ytliked/storage"
)

// OpenStore opens the persistent store named by the configuration,
// choosing the backend from cfg.StoreBackend.
func OpenStore(cfg *config.Config) (*storage.Store, error) {
	var (
		kv  storage.KeyValue
		err error
	)
	switch cfg.StoreBackend {
	case "sqlite":
		kv, err = internal.NewSQLiteStore(cfg.StorePath())
	default:
		kv, err = internal.NewJSONFileStore(cfg.StorePath())
	}
	if err != nil {
		return nil, err
	}
	return storage.NewStore(kv), nil
}
