package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"timebox/internal/modules/insight/domain"
	insightout "timebox/internal/modules/insight/port/out"
)

const ManifestFileName = "plugins.json"

type FileManifestStore struct {
	dir  string
	path string
}

// NewFileManifestStore reads <dir>/plugins.json; relative binaries resolve against dir.
func NewFileManifestStore(dir string) insightout.ManifestStore {
	return &FileManifestStore{dir: dir, path: filepath.Join(dir, ManifestFileName)}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read provider manifests: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode provider manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.dir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
