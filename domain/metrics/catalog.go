package metrics

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Metrics []Metric `yaml:"metrics"`
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// LoadCatalog builds a registry from the embedded catalog. The result is built once
// per process and shared; it is read-only.
func LoadCatalog() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = ParseCatalog(embeddedCatalog)
	})
	return defaultRegistry, defaultErr
}

// MustLoadCatalog is LoadCatalog for wiring code where a broken embedded catalog is a bug
func MustLoadCatalog() *Registry {
	r, err := LoadCatalog()
	if err != nil {
		panic(fmt.Sprintf("embedded metric catalog: %v", err))
	}
	return r
}

// ParseCatalog decodes a YAML catalog document into a registry
func ParseCatalog(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode metric catalog: %w", err)
	}
	if len(file.Metrics) == 0 {
		return nil, fmt.Errorf("metric catalog is empty")
	}
	return NewRegistry(file.Metrics)
}

// ReadCatalog decodes a catalog from r, for deployments that override the embedded one
func ReadCatalog(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read metric catalog: %w", err)
	}
	return ParseCatalog(data)
}
