package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileKnowledgeProvider serves client knowledge records from a JSON file
// keyed by client id.
type FileKnowledgeProvider struct {
	name string
	path string
}

// NewFileKnowledgeProvider returns a provider referencing the given file.
func NewFileKnowledgeProvider(name, path string) (*FileKnowledgeProvider, error) {
	if name == "" {
		return nil, errors.New("providers: knowledge provider requires a name")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("providers: knowledge provider: %w", err)
	}
	return &FileKnowledgeProvider{name: name, path: path}, nil
}

// Name returns the provider name.
func (p *FileKnowledgeProvider) Name() string { return p.name }

// GetClientKnowledge returns the record for the client, or nil when the
// client has none.
func (p *FileKnowledgeProvider) GetClientKnowledge(ctx context.Context, req KnowledgeRequest) (*ClientKnowledge, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("providers: read knowledge %s: %w", p.path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	var byClient map[string]ClientKnowledge
	if err := decoder.Decode(&byClient); err != nil {
		return nil, fmt.Errorf("providers: decode knowledge %s: %w", p.path, err)
	}

	record, ok := byClient[req.ClientID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}
