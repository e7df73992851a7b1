// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads per-user API tokens from a directory of plain-text files.
// Each file in the directory holds one token: the filename is the user ID and the
// file contents (trimmed) are the token the user presents as a bearer token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/section-engine/internal/logging"
)

// Load reads all files in dir and returns a map of user ID to trimmed token.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	tokens := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log := logging.Logger()
			log.Warn().Err(err).Str("user", name).Msg("could not read token")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			tokens[name] = value
		}
	}

	return tokens, nil
}

// Index inverts a user→token map into token→user so that requests can be
// authenticated by token. Two users sharing a token is an error.
func Index(tokens map[string]string) (map[string]string, error) {
	users := make([]string, 0, len(tokens))
	for u := range tokens {
		users = append(users, u)
	}
	sort.Strings(users)

	index := make(map[string]string, len(tokens))
	for _, u := range users {
		tok := tokens[u]
		if other, ok := index[tok]; ok {
			return nil, fmt.Errorf("users %s and %s share the same token", other, u)
		}
		index[tok] = u
	}
	return index, nil
}
