// Package store provides functionality for storing and retrieving application data.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"c19money/internal/config"
	"c19money/internal/textutils"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// OrgStore manages the curated organisation-name registry: a YAML map from
// IATI organisation refs to preferred display names. Seeded names take
// priority over whatever name a publisher happens to report first.
type OrgStore struct {
	OrgsFile string
}

// NewOrgStore creates a store backed by the given YAML file.
func NewOrgStore(orgsFile string) *OrgStore {
	return &OrgStore{OrgsFile: orgsFile}
}

// LoadOrgNames loads the ref-to-name registry. A missing file is not an
// error: it yields an empty map.
func (s *OrgStore) LoadOrgNames() (map[string]string, error) {
	filename := s.OrgsFile
	if filename == "" {
		filename = "orgs.yaml"
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Organisation registry not found: %s", filename)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error reading organisation registry: %w", err)
	}

	var names map[string]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("error parsing organisation registry: %w", err)
	}

	// Registry keys are matched case-insensitively against reported refs.
	normalized := make(map[string]string, len(names))
	for ref, name := range names {
		normalized[textutils.NormalizeRef(ref)] = textutils.CleanString(name)
	}

	log.Debugf("Loaded %d organisation names from %s", len(normalized), filename)
	return normalized, nil
}

// SaveOrgNames writes the registry back to disk with sorted keys.
func (s *OrgStore) SaveOrgNames(names map[string]string) error {
	filename := s.OrgsFile
	if filename == "" {
		filename = "orgs.yaml"
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("error creating registry directory: %w", err)
	}

	refs := make([]string, 0, len(names))
	for ref := range names {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	ordered := &yaml.Node{Kind: yaml.MappingNode}
	for _, ref := range refs {
		ordered.Content = append(ordered.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: ref},
			&yaml.Node{Kind: yaml.ScalarNode, Value: names[ref]},
		)
	}

	data, err := yaml.Marshal(ordered)
	if err != nil {
		return fmt.Errorf("error marshaling organisation registry: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("error writing organisation registry: %w", err)
	}

	log.Debugf("Saved %d organisation names to %s", len(names), filename)
	return nil
}
