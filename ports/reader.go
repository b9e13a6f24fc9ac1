package ports

import (
	"context"
	"io"

	"zoostat/domain/dataset"
)

// DatasetReader decodes one tabular format into a dataset
type DatasetReader interface {
	// Read decodes the whole stream; name becomes the dataset name
	Read(ctx context.Context, r io.Reader, name string) (*dataset.Dataset, error)
	// Accepts reports whether the reader handles a file with the given name
	Accepts(filename string) bool
}
