package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"zoostat/domain/dataset"
	"zoostat/internal/errors"
	"zoostat/ports"
)

// DatasetLoader picks the reader for a file by its name
type DatasetLoader struct {
	readers []ports.DatasetReader
}

// NewDatasetLoader creates a loader; readers are tried in order
func NewDatasetLoader(readers ...ports.DatasetReader) *DatasetLoader {
	return &DatasetLoader{readers: readers}
}

// Load decodes src with the first reader accepting name
func (l *DatasetLoader) Load(ctx context.Context, src io.Reader, name string) (*dataset.Dataset, error) {
	for _, r := range l.readers {
		if r.Accepts(name) {
			return r.Read(ctx, src, name)
		}
	}
	return nil, errors.Unsupported(fmt.Sprintf("formato de arquivo não suportado: %s", filepath.Ext(name)))
}

// LoadFile opens path and decodes it
func (l *DatasetLoader) LoadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("arquivo %s", path))
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return l.Load(ctx, f, filepath.Base(path))
}
