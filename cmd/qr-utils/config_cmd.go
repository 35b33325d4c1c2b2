package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prasetyowira/qr-utils/config"
	"github.com/spf13/cobra"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change persisted settings",
		Long:  "Read or change persisted settings. Known keys:\n  " + strings.Join(config.Keys(), "\n  "),
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			v, err := a.cfg.Get(args[0])
			if err != nil {
				return err
			}
			if m, ok := v.(map[string]interface{}); ok {
				out, err := json.MarshalIndent(m, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}
			fmt.Fprintln(a.stdout, v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			if err := a.cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, a.cfg.Path())
			return nil
		},
	}

	cmd.AddCommand(get, set, path)
	return cmd
}
