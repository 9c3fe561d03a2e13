package dealconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a deal YAML file, applies defaults, and validates it.
// KnownFields(true) makes typos and unused fields fail immediately.
// The raw bytes are returned alongside for snapshotting.
func Load(path string) (*Deal, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	deal, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return deal, data, nil
}

// Parse decodes and validates a deal from raw YAML.
func Parse(data []byte) (*Deal, error) {
	var deal Deal
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&deal); err != nil {
		return nil, fmt.Errorf("decode deal: %w", err)
	}

	deal.applyDefaults()
	if err := Validate(&deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// Hash generates a SHA-256 hash of the deal from its canonical JSON
// form. Struct field order keeps the hash reproducible.
func Hash(d *Deal) (string, error) {
	jsonBytes, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewSnapshot captures the deal and its raw YAML for audit.
func NewSnapshot(d *Deal, yamlData []byte) (*Snapshot, error) {
	hash, err := Hash(d)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		DealID:     d.Meta.DealID,
		CreatedAt:  time.Now(),
	}, nil
}
