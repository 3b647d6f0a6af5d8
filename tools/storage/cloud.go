package storage

import (
	"context"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/models"
)

// Upload ships a finished artifact to the job's CDN. The backend is
// chosen per job message, not per deployment, so one worker can serve
// tenants on different storage providers.
func Upload(ctx context.Context, cfg *models.CloudStorageConfig, localPath, key string) error {
	if cfg == nil {
		return fmt.Errorf("job has no cdn configuration")
	}

	switch cfg.Type {
	case "minio":
		return uploadMinio(ctx, cfg, localPath, key)
	case "s3":
		return uploadS3(ctx, cfg, localPath, key)
	default:
		return fmt.Errorf("unknown cdn type %q", cfg.Type)
	}
}
