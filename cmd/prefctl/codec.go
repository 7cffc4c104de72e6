package main

import (
	"fmt"
	"strconv"

	"github.com/dogmatiq/preferencekit/preference"
	"github.com/spf13/cobra"
)

func newDecodeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <packed>",
		Short: "Print the preferences represented by a packed value",
		Long: "Print the preferences represented by a packed value.\n\n" +
			"The value may be given in decimal, or with a 0b, 0o or 0x prefix.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}

			packed, err := strconv.ParseUint(args[0], 0, 64)
			if err != nil {
				return fmt.Errorf("%q is not a packed value: %w", args[0], err)
			}

			s, err := preference.New(cmd.Context(), r, packed, nil)
			if err != nil {
				return err
			}

			return opts.print(cmd, s)
		},
	}
}

func newEncodeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [key=value...]",
		Short: "Print the packed value of the defaults plus the given assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}

			pairs, err := parseAssignments(args)
			if err != nil {
				return err
			}

			s, err := preference.New(cmd.Context(), r, nil, nil)
			if err != nil {
				return err
			}

			if err := s.BulkSet(cmd.Context(), pairs); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Encode())
			return err
		},
	}
}
