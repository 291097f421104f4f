package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryFixture = `[
  {
    "id": "item_brand",
    "tenant_id": "ten_alpha",
    "client_id": "cli_1",
    "title": "Manifesto",
    "chunks": [
      {"id": "chk_1", "text": "pao de fermentacao natural fornada do dia"},
      {"id": "chk_2", "text": "horario de funcionamento aos domingos"}
    ]
  },
  {
    "id": "item_other_client",
    "tenant_id": "ten_alpha",
    "client_id": "cli_2",
    "chunks": [
      {"id": "chk_3", "text": "pao de fermentacao natural para outro cliente"}
    ]
  },
  {
    "id": "item_other_tenant",
    "tenant_id": "ten_beta",
    "client_id": "cli_1",
    "chunks": [
      {"id": "chk_4", "text": "pao de fermentacao natural de outro tenant"}
    ]
  }
]`

func writeLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte(libraryFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestBuildPackScopesTenantAndClient(t *testing.T) {
	lib, err := NewFileLibrary("library", writeLibrary(t))
	require.NoError(t, err)

	pack, err := lib.BuildPack(context.Background(), PackRequest{
		TenantID: "ten_alpha",
		ClientID: "cli_1",
		Query:    "fermentacao natural fornada",
		K:        5,
	})
	require.NoError(t, err)

	assert.Contains(t, pack.PackedText, "fornada do dia")
	assert.NotContains(t, pack.PackedText, "outro cliente")
	assert.NotContains(t, pack.PackedText, "outro tenant")

	require.Len(t, pack.Sources, 1)
	assert.Equal(t, "item_brand", pack.Sources[0].LibraryItemID)
}

func TestBuildPackRanksByOverlap(t *testing.T) {
	lib, err := NewFileLibrary("library", writeLibrary(t))
	require.NoError(t, err)

	pack, err := lib.BuildPack(context.Background(), PackRequest{
		TenantID: "ten_alpha",
		ClientID: "cli_1",
		Query:    "fermentacao natural fornada",
	})
	require.NoError(t, err)

	blocks := strings.Split(pack.PackedText, "\n---\n")
	require.NotEmpty(t, blocks)
	assert.Contains(t, blocks[0], "fermentacao natural")
}

func TestBuildPackLimitsToK(t *testing.T) {
	lib, err := NewFileLibrary("library", writeLibrary(t))
	require.NoError(t, err)

	pack, err := lib.BuildPack(context.Background(), PackRequest{
		TenantID: "ten_alpha",
		ClientID: "cli_1",
		Query:    "pao fermentacao natural fornada domingos funcionamento",
		K:        1,
	})
	require.NoError(t, err)

	require.Len(t, pack.Sources, 1)
	assert.Len(t, pack.Sources[0].ChunkIDs, 1)
	assert.NotContains(t, pack.PackedText, "\n---\n")
}
