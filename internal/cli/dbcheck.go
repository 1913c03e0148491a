package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/spf13/cobra"
)

// passwordPattern matches the password part of a postgres URL
var passwordPattern = regexp.MustCompile(`:[^:]*@`)

func newDBCheckCmd() *cobra.Command {
	var (
		databaseURL string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Check the PostgreSQL database directly",
		Long: `dbcheck connects to PostgreSQL without going through the server, prints the
database time and the public tables, and checks that the players table can be read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			dsn := checkDSN(databaseURL, os.Getenv("APP_ENV") == "production")
			if cfg.Verbose {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Testing database connection to %s\n", maskPassword(dsn))
			}

			result, err := runDBCheck(ctx, dsn)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL (env: DATABASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall timeout")

	return cmd
}

func runDBCheck(ctx context.Context, dsn string) (DBCheckResult, error) {
	result := DBCheckResult{Connection: maskPassword(dsn)}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return result, err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return result, err
	}

	if err := db.QueryRowContext(ctx, `SELECT NOW()`).Scan(&result.DatabaseTime); err != nil {
		return result, fmt.Errorf("query time: %w", err)
	}

	tables, err := publicTables(ctx, db)
	if err != nil {
		return result, err
	}
	result.Tables = tables

	if err := readPlayers(ctx, db); err != nil {
		result.PlayersError = describePQError(err)
	} else {
		result.PlayersOK = true
	}

	return result, nil
}

func publicTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func readPlayers(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT * FROM players LIMIT 1`)
	if err != nil {
		return err
	}
	return rows.Close()
}

// checkDSN adds an sslmode when the URL does not name one. Production
// databases are reached over TLS without certificate verification.
func checkDSN(databaseURL string, production bool) string {
	if strings.Contains(databaseURL, "sslmode=") {
		return databaseURL
	}

	mode := "disable"
	if production {
		mode = "require"
	}

	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return databaseURL + sep + "sslmode=" + mode
}

func maskPassword(dsn string) string {
	return passwordPattern.ReplaceAllString(dsn, ":****@")
}

func describePQError(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("%s (SQLSTATE %s)", pqErr.Message, pqErr.Code)
	}
	return err.Error()
}
