// AngelaMos | 2026
// migrate_schema_test.go

package core

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createTable = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

// columnDefinitions maps table name to column name to its definition line,
// across every embedded migration.
func columnDefinitions(t *testing.T) map[string]map[string]string {
	t.Helper()

	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	tables := make(map[string]map[string]string)
	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		require.NoError(t, err)

		for _, m := range createTable.FindAllStringSubmatch(string(body), -1) {
			cols := make(map[string]string)
			for _, line := range strings.Split(m[2], "\n") {
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				cols[fields[0]] = strings.Join(fields, " ")
			}
			tables[m[1]] = cols
		}
	}

	return tables
}

func TestSchemaDeleteRules(t *testing.T) {
	tables := columnDefinitions(t)

	tests := []struct {
		table  string
		column string
		want   string
	}{
		{"users", "business_id", "REFERENCES businesses (id) ON DELETE CASCADE"},
		{"products", "business_id", "REFERENCES businesses (id) ON DELETE CASCADE"},
		{"products", "created_by", "REFERENCES users (id) ON DELETE CASCADE"},
		{"chat_messages", "user_id", "REFERENCES users (id) ON DELETE SET NULL"},
		{"refresh_tokens", "user_id", "REFERENCES users (id) ON DELETE CASCADE"},
	}

	for _, tt := range tests {
		t.Run(tt.table+"."+tt.column, func(t *testing.T) {
			cols, ok := tables[tt.table]
			require.True(t, ok, "table %s not declared", tt.table)

			def, ok := cols[tt.column]
			require.True(t, ok, "column %s.%s not declared", tt.table, tt.column)
			assert.Contains(t, def, tt.want)
		})
	}
}

func TestSchemaPriceColumn(t *testing.T) {
	def := columnDefinitions(t)["products"]["price"]

	assert.Contains(t, def, "NUMERIC(10, 2)")
	assert.Contains(t, def, "CHECK (price >= 0)")
}
