package seeder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/storage/gcs"
)

// Source fetches a workbook object by name.
type Source interface {
	Fetch(ctx context.Context, object string) (io.ReadCloser, error)
}

// GCSSource downloads workbooks from the configured bucket and prefix.
type GCSSource struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSSource wires a workbook source over the storage client.
func NewGCSSource(client *gcs.Client, cfg config.SeederConfig) (*GCSSource, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("seeder bucket is required")
	}
	return &GCSSource{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.ObjectPrefix, "/"),
	}, nil
}

func (s *GCSSource) Fetch(ctx context.Context, object string) (io.ReadCloser, error) {
	object = strings.TrimSpace(object)
	if object == "" {
		return nil, fmt.Errorf("object name is required")
	}
	if s.prefix != "" && !strings.HasPrefix(object, s.prefix+"/") {
		object = path.Join(s.prefix, object)
	}
	return s.client.Download(ctx, s.bucket, object)
}

// FileSource reads workbooks from a local directory, used by the CLI and tests.
type FileSource struct {
	Dir string
}

func (s FileSource) Fetch(_ context.Context, object string) (io.ReadCloser, error) {
	object = strings.TrimSpace(object)
	if object == "" {
		return nil, fmt.Errorf("object name is required")
	}
	name := object
	if s.Dir != "" && !filepath.IsAbs(object) {
		name = filepath.Join(s.Dir, object)
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %q: %w", name, err)
	}
	return file, nil
}
