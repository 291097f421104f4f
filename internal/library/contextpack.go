// Package library provides tenant-scoped retrieval over a client's content
// library. It ranks stored text chunks against a query and packs the best
// ones into a bounded context for copy generation.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Chunk is one retrievable fragment of a library item.
type Chunk struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is a stored library document scoped to a tenant and client.
type Item struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenant_id"`
	ClientID string  `json:"client_id"`
	Title    string  `json:"title,omitempty"`
	Chunks   []Chunk `json:"chunks"`
}

// SourceRef points back at the chunks a pack borrowed from one item.
type SourceRef struct {
	LibraryItemID string   `json:"library_item_id"`
	ChunkIDs      []string `json:"chunk_ids"`
	Score         float64  `json:"score,omitempty"`
}

// ContextPack is the bounded retrieval result handed to copy generation.
type ContextPack struct {
	PackedText string      `json:"packed_text"`
	Sources    []SourceRef `json:"sources"`
}

// PackRequest scopes one retrieval.
type PackRequest struct {
	TenantID string
	ClientID string
	Query    string
	K        int
}

// ContextPackProvider builds context packs for a tenant's client.
type ContextPackProvider interface {
	Name() string
	BuildPack(ctx context.Context, req PackRequest) (*ContextPack, error)
}

// FileLibrary is a ContextPackProvider over a JSON file of items.
type FileLibrary struct {
	name string
	path string
}

// NewFileLibrary returns a library referencing the given file.
func NewFileLibrary(name, path string) (*FileLibrary, error) {
	if name == "" {
		return nil, errors.New("library: requires a name")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	return &FileLibrary{name: name, path: path}, nil
}

// Name returns the library name.
func (l *FileLibrary) Name() string { return l.name }

type rankedChunk struct {
	itemID string
	chunk  Chunk
	score  float64
}

// BuildPack ranks the tenant's chunks against the query by token overlap
// and packs the top K into one text block.
func (l *FileLibrary) BuildPack(ctx context.Context, req PackRequest) (*ContextPack, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if req.K <= 0 {
		req.K = 12
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("library: read %s: %w", l.path, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	var items []Item
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("library: decode %s: %w", l.path, err)
	}

	queryTokens := tokenize(req.Query)

	var ranked []rankedChunk
	for _, item := range items {
		if item.TenantID != req.TenantID || item.ClientID != req.ClientID {
			continue
		}
		for _, chunk := range item.Chunks {
			score := overlapScore(queryTokens, tokenize(chunk.Text))
			if score <= 0 {
				continue
			}
			ranked = append(ranked, rankedChunk{itemID: item.ID, chunk: chunk, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > req.K {
		ranked = ranked[:req.K]
	}

	byItem := make(map[string]*SourceRef)
	var order []string
	var texts []string
	for _, rc := range ranked {
		texts = append(texts, rc.chunk.Text)
		ref, ok := byItem[rc.itemID]
		if !ok {
			ref = &SourceRef{LibraryItemID: rc.itemID}
			byItem[rc.itemID] = ref
			order = append(order, rc.itemID)
		}
		ref.ChunkIDs = append(ref.ChunkIDs, rc.chunk.ID)
		if rc.score > ref.Score {
			ref.Score = rc.score
		}
	}

	pack := &ContextPack{PackedText: strings.Join(texts, "\n---\n")}
	for _, itemID := range order {
		pack.Sources = append(pack.Sources, *byItem[itemID])
	}
	return pack, nil
}

func overlapScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	var intersection int
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenize(s string) []string {
	replacer := strings.NewReplacer(
		",", " ", ".", " ", ":", " ", ";", " ", "!", " ", "?", " ",
		"(", " ", ")", " ", "'", " ", "\"", " ", "-", " ", "_", " ",
		"|", " ", "/", " ",
	)
	normalized := strings.ToLower(replacer.Replace(s))
	parts := strings.Fields(normalized)
	var tokens []string
	for _, p := range parts {
		if len(p) <= 2 {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}
