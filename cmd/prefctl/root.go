package main

import (
	"fmt"
	"strings"

	"github.com/dogmatiq/preferencekit/config"
	"github.com/dogmatiq/preferencekit/marshaler"
	"github.com/dogmatiq/preferencekit/preference"
	"github.com/spf13/cobra"
)

// options are the flags shared by all commands.
type options struct {
	Env      config.Env
	HostType string
	JSON     bool
}

func newRootCommand(env config.Env) *cobra.Command {
	opts := &options{Env: env}

	cmd := &cobra.Command{
		Use:          "prefctl",
		Short:        "Inspect and modify packed preference values",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Env.Config, "config", env.Config, "path to the preferences configuration file")
	flags.StringVar(&opts.Env.DSN, "dsn", env.DSN, "data source name of the record database")
	flags.StringVar(&opts.HostType, "type", "", "host type whose preferences are used")
	flags.BoolVar(&opts.JSON, "json", false, "print preferences as a JSON object")

	cmd.AddCommand(
		newDecodeCommand(opts),
		newEncodeCommand(opts),
		newGetCommand(opts),
		newSetCommand(opts),
		newListCommand(opts),
	)

	return cmd
}

// registry returns the registry for the host type selected by the --type
// flag.
func (o *options) registry() (*preference.Registry, error) {
	if o.HostType == "" {
		return nil, fmt.Errorf("the --type flag is required")
	}

	cfg, err := config.Load(o.Env.Config)
	if err != nil {
		return nil, err
	}

	var cat preference.Catalog
	if err := cfg.Apply(&cat); err != nil {
		return nil, err
	}

	r, ok := cat.Registry(o.HostType)
	if !ok {
		return nil, fmt.Errorf("%q is not a configured host type", o.HostType)
	}

	return r, nil
}

// print writes the preferences in s to the command's output.
func (o *options) print(cmd *cobra.Command, s *preference.Set) error {
	out := cmd.OutOrStdout()

	if o.JSON {
		data, err := marshaler.NewJSON[map[string]bool]().Marshal(s.Map())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	}

	for k, v := range s.Enumerate() {
		if _, err := fmt.Fprintf(out, "%s=%t\n", k, v); err != nil {
			return err
		}
	}

	return nil
}

// parseAssignments parses "key=value" arguments into preference pairs.
//
// Values are coerced with [preference.IsTrue].
func parseAssignments(args []string) ([]preference.Pair, error) {
	pairs := make([]preference.Pair, 0, len(args))

	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%q is not a key=value assignment", arg)
		}
		pairs = append(pairs, preference.Pair{Key: k, Value: v})
	}

	return pairs, nil
}
