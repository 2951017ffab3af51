package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSource(t *testing.T) {
	src, err := iofs.New(embedded, "sql")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestInitSchemaGuardsInvariants(t *testing.T) {
	raw, err := fs.ReadFile(embedded, "sql/000001_init.up.sql")
	require.NoError(t, err)
	schema := string(raw)

	for _, fragment := range []string{
		"CHECK (current_stock >= 0)",
		"export_receipts_idempotency_key_key UNIQUE (idempotency_key)",
		"import_receipts_idempotency_key_key UNIQUE (idempotency_key)",
		"products_sku_key UNIQUE (sku)",
		"partners_phone_key UNIQUE (phone)",
		"CREATE TABLE IF NOT EXISTS counters",
	} {
		assert.True(t, strings.Contains(schema, fragment), "missing %q", fragment)
	}
}

func TestUp_RequiresPool(t *testing.T) {
	assert.Error(t, Up(context.Background(), nil))
}
