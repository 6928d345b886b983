// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files.
// The filename is the key and the trimmed file contents are the value.
//
// Known keys: search-api-token.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where secrets live relative to the working directory.
const DefaultDir = ".secrets"

// SearchToken is the key whose value is sent as X-Auth-Token to the
// prediction service.
const SearchToken = "search-api-token"

// Secrets is the set of values read from a secrets directory.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Files that cannot be read are reported to warn and
// skipped; warn may be nil.
func Load(dir string, warn io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			}
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, nil
}

// Lookup returns the value for key and whether it was present.
func (s Secrets) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Resolve returns explicit when it is set, otherwise the stored value for
// key. Configuration and environment take precedence over files.
func (s Secrets) Resolve(key, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return s[key]
}
