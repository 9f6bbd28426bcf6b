package descriptor

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed memory_layer.yaml
var defaultManifest []byte

type manifestFile struct {
	Endpoints []manifestEndpoint `yaml:"endpoints"`
}

type manifestEndpoint struct {
	Method  string    `yaml:"method"`
	Path    string    `yaml:"path"`
	Tags    []string  `yaml:"tags"`
	Summary string    `yaml:"summary"`
	Schema  SchemaRef `yaml:"schema"`
}

// ManifestSource reads endpoint descriptors from a YAML manifest. With an
// empty path it serves the embedded memory-layer manifest.
type ManifestSource struct {
	path string
}

// NewManifestSource creates a manifest-backed source. path may be empty to
// use the built-in memory-layer endpoint manifest.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Endpoints parses the manifest and returns its descriptors.
func (s *ManifestSource) Endpoints() ([]Descriptor, error) {
	data := defaultManifest
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read endpoint manifest: %w", err)
		}
		data = b
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse endpoint manifest: %w", err)
	}
	if len(mf.Endpoints) == 0 {
		return nil, fmt.Errorf("endpoint manifest has no endpoints")
	}

	descs := make([]Descriptor, 0, len(mf.Endpoints))
	for i, e := range mf.Endpoints {
		if e.Method == "" || e.Path == "" {
			return nil, fmt.Errorf("endpoint manifest entry %d: method and path are required", i)
		}
		descs = append(descs, Descriptor{
			Method:  Method(e.Method),
			Path:    e.Path,
			Tags:    e.Tags,
			Summary: e.Summary,
			Schema:  e.Schema,
		})
	}
	return descs, nil
}
