package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"contentcal/internal/calendar"
)

// StaticEventsProvider serves local events from a JSON file, filtered by
// the requested locality.
type StaticEventsProvider struct {
	name string
	path string
}

// NewStaticEventsProvider returns a provider referencing the given file.
func NewStaticEventsProvider(name, path string) (*StaticEventsProvider, error) {
	if name == "" {
		return nil, errors.New("providers: static events provider requires a name")
	}
	if path == "" {
		return nil, errors.New("providers: static events provider requires a path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("providers: static events: %w", err)
	}
	return &StaticEventsProvider{name: name, path: path}, nil
}

// Name returns the provider name.
func (p *StaticEventsProvider) Name() string { return p.name }

// GetLocalEvents reads the file and keeps events matching the locality.
func (p *StaticEventsProvider) GetLocalEvents(ctx context.Context, req LocalEventsRequest) ([]calendar.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("providers: read local events %s: %w", p.path, err)
	}
	events, err := DecodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("providers: decode local events %s: %w", p.path, err)
	}

	var filtered []calendar.Event
	for _, ev := range events {
		if localityAllows(ev, req.Locality) {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// DecodeEvents parses a JSON array of events, rejecting unknown fields and
// records without an id or name.
func DecodeEvents(data []byte) ([]calendar.Event, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var raw []calendar.Event
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	events := make([]calendar.Event, 0, len(raw))
	for _, ev := range raw {
		if ev.ID == "" || ev.Name == "" {
			continue
		}
		ev.Tags = normalizeTags(ev.Tags)
		events = append(events, ev)
	}
	return events, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func localityAllows(ev calendar.Event, loc Locality) bool {
	switch ev.Scope {
	case calendar.ScopeGlobal, "":
		return true
	case calendar.ScopeBR:
		return loc.Country == "BR"
	case calendar.ScopeUF:
		return loc.Country == "BR" && loc.UF != "" && strings.EqualFold(ev.UF, loc.UF)
	case calendar.ScopeCity:
		return loc.Country == "BR" && loc.City != "" && strings.EqualFold(ev.City, loc.City)
	}
	return false
}

// IngestEventsProvider stores ad-hoc local events submitted via the API.
type IngestEventsProvider struct {
	name string
	mu   sync.RWMutex
	list []calendar.Event
}

// NewIngestEventsProvider constructs an empty ingest provider.
func NewIngestEventsProvider(name string) *IngestEventsProvider {
	if name == "" {
		name = "ingest"
	}
	return &IngestEventsProvider{name: name}
}

// Name returns the provider identifier.
func (p *IngestEventsProvider) Name() string { return p.name }

// Add registers an event, generating defaults when missing. An event with a
// known id replaces the previous record.
func (p *IngestEventsProvider) Add(ev calendar.Event) calendar.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Scope == "" {
		ev.Scope = calendar.ScopeCity
	}
	ev.Tags = normalizeTags(ev.Tags)

	for idx := range p.list {
		if p.list[idx].ID == ev.ID {
			p.list[idx] = ev
			return ev
		}
	}
	p.list = append(p.list, ev)
	return ev
}

// GetLocalEvents returns the stored events matching the locality.
func (p *IngestEventsProvider) GetLocalEvents(ctx context.Context, req LocalEventsRequest) ([]calendar.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]calendar.Event, 0, len(p.list))
	for _, ev := range p.list {
		if localityAllows(ev, req.Locality) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// LocalEventSet merges multiple local-event providers in registration order.
type LocalEventSet struct {
	providers []LocalEventsProvider
}

// NewLocalEventSet builds a set with the provided providers.
func NewLocalEventSet(list ...LocalEventsProvider) (*LocalEventSet, error) {
	if len(list) == 0 {
		return nil, errors.New("providers: at least one local-events provider is required")
	}
	return &LocalEventSet{providers: list}, nil
}

// Name identifies the composite provider.
func (s *LocalEventSet) Name() string { return "local_event_set" }

// Add registers another provider.
func (s *LocalEventSet) Add(p LocalEventsProvider) {
	s.providers = append(s.providers, p)
}

// GetLocalEvents aggregates events from every registered provider,
// preserving provider registration order.
func (s *LocalEventSet) GetLocalEvents(ctx context.Context, req LocalEventsRequest) ([]calendar.Event, error) {
	var results []calendar.Event
	for _, p := range s.providers {
		events, err := p.GetLocalEvents(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("local events from %s: %w", p.Name(), err)
		}
		results = append(results, events...)
	}
	return results, nil
}
