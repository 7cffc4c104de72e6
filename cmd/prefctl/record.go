package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/driver/sql/postgres/pgcolumn"
	"github.com/dogmatiq/preferencekit/preference"
	"github.com/dogmatiq/preferencekit/record"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
)

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the preferences of a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(
				cmd.Context(),
				func(repo *record.Repository) error {
					rec, err := repo.Load(cmd.Context(), args[0])
					if err != nil {
						return err
					}

					s, err := rec.Prefs(cmd.Context())
					if err != nil {
						return err
					}

					return opts.print(cmd, s)
				},
			)
		},
	}
}

func newSetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> key=value...",
		Short: "Change the preferences of a stored record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			return opts.withRepository(
				cmd.Context(),
				func(repo *record.Repository) error {
					rec, err := repo.Load(cmd.Context(), args[0])
					if err != nil {
						return err
					}

					if err := rec.SetPrefs(cmd.Context(), pairs); err != nil {
						return err
					}

					s, err := rec.Prefs(cmd.Context())
					if err != nil {
						return err
					}

					return opts.print(cmd, s)
				},
			)
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the packed value of every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(
				cmd.Context(),
				func(repo *record.Repository) error {
					return repo.Range(
						cmd.Context(),
						func(_ context.Context, id string, s *preference.Set) (bool, error) {
							_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", id, s.Encode())
							return err == nil, err
						},
					)
				},
			)
		},
	}
}

// withRepository calls fn with a repository for the selected host type, backed
// by the database given by the DSN.
func (o *options) withRepository(
	ctx context.Context,
	fn func(*record.Repository) error,
) error {
	r, err := o.registry()
	if err != nil {
		return err
	}

	if o.Env.DSN == "" {
		return fmt.Errorf("the --dsn flag is required")
	}

	db, err := sql.Open(o.Env.Driver, o.Env.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pgcolumn.CreateSchema(ctx, db); err != nil {
		return err
	}

	var store column.Store = &pgcolumn.Store{DB: db}
	if o.Env.Namespace != "" {
		store = column.WithNamePrefix(store, o.Env.Namespace+".")
	}

	store = column.WithTelemetry(
		store,
		otel.GetTracerProvider(),
		otel.GetMeterProvider(),
		global.GetLoggerProvider(),
	)

	repo, err := record.NewRepository(ctx, store, r)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(repo)
}
