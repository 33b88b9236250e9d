package common

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatabase(t *testing.T) {

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	database, err := OpenDatabase(path)
	require.NoError(t, err)
	defer database.Close()
	assert.Equal(t, path, database.Path)

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx,
		`CREATE TABLE IF NOT EXISTS things (name TEXT NOT NULL);`,
		`INSERT INTO things (name) VALUES ('puck');`,
	))

	var names []string
	require.NoError(t, database.SelectContext(ctx, &names, `SELECT name FROM things`))
	assert.Equal(t, []string{"puck"}, names)

	assert.Error(t, database.Migrate(ctx, `NOT SQL`))
}
