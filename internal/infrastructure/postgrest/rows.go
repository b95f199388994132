package postgrest

import (
	"fmt"

	"github.com/go-push-relay/internal/domain"
	"github.com/supabase-community/postgrest-go"
)

// fetchOne selects columns from the single row of table where column == value.
// PostgREST always answers with an array, so an empty one means the row is absent.
func fetchOne[T any](client *postgrest.Client, table, columns, column, value string) (*T, error) {
	var rows []T
	_, err := client.From(table).
		Select(columns, "", false).
		Eq(column, value).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s row %s: %w", table, value, domain.ErrNotFound)
	}
	return &rows[0], nil
}
