package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/recordbook/internal/version"
	recordbook "github.com/kailas-cloud/recordbook/pkg/sdk"
)

// storeFlags select the record store for client subcommands.
type storeFlags struct {
	dbPath      string
	redisAddr   string
	password    string
	prefix      string
	interpreter string
	timeout     time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	home, _ := os.UserHomeDir()
	flags := &storeFlags{}

	root := &cobra.Command{
		Use:           "recordbook",
		Short:         "Citizen and criminal records with natural-language search",
		Version:       fmt.Sprintf("%s (%s, %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dbPath, "db", filepath.Join(home, ".recordbook", "records.db"), "SQLite database path")
	pf.StringVar(&flags.redisAddr, "redis", "", "Valkey/Redis address; overrides --db")
	pf.StringVar(&flags.password, "redis-password", "", "Valkey/Redis password")
	pf.StringVar(&flags.prefix, "prefix", "recordbook:", "key prefix for Valkey/Redis")
	pf.StringVar(&flags.interpreter, "interpreter", "", "remote interpreter base URL; keyword matching when empty")
	pf.DurationVar(&flags.timeout, "timeout", 10*time.Second, "interpreter call timeout")

	root.AddCommand(serveCmd())
	root.AddCommand(askCmd(flags))
	root.AddCommand(citizensCmd(flags))
	root.AddCommand(criminalsCmd(flags))
	return root
}

// openClient builds an SDK client from the persistent flags.
func openClient(ctx context.Context, f *storeFlags) (*recordbook.Client, error) {
	opts := []recordbook.Option{
		recordbook.WithKeyPrefix(f.prefix),
		recordbook.WithCommandTimeout(f.timeout),
	}
	if f.redisAddr != "" {
		opts = append(opts, recordbook.WithRedis(f.redisAddr, f.password))
	} else {
		if f.dbPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(f.dbPath), 0o750); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		opts = append(opts, recordbook.WithSQLite(f.dbPath))
	}
	if f.interpreter != "" {
		opts = append(opts, recordbook.WithInterpreterURL(f.interpreter))
	}

	c, err := recordbook.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	return c, nil
}
