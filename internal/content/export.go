// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/pkg/types"
)

// ExportYAML writes every indexed node to indexDir/export.yaml and returns
// the path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	nodes, err := s.exportNodes(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every indexed node to indexDir/export.json and returns
// the path written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	nodes, err := s.exportNodes(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportNodes(ctx context.Context) ([]*types.Node, error) {
	nodes, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if nodes == nil {
		nodes = []*types.Node{}
	}
	return nodes, nil
}
