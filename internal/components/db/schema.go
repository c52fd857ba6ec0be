package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var Schema string

// Statements splits Schema into its statements, some drivers only accept one
// statement per Exec.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate creates the tables that do not exist yet.
func Migrate(ctx context.Context, conn sqlx.ExecerContext) error {
	for _, stmt := range Statements() {
		_, err := conn.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
