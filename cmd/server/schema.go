package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arsw/blueprints/internal/blueprint"
	"github.com/arsw/blueprints/internal/config"
)

var schemaDriver string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the blueprint table DDL for a relational driver",
	RunE: func(cmd *cobra.Command, _ []string) error {
		switch schemaDriver {
		case config.DriverPostgres:
			fmt.Fprintln(cmd.OutOrStdout(), blueprint.PostgresSchema)
		case config.DriverSQLite:
			fmt.Fprintln(cmd.OutOrStdout(), blueprint.SQLiteSchema)
		default:
			return fmt.Errorf("unknown driver %q: want %q or %q", schemaDriver, config.DriverPostgres, config.DriverSQLite)
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaDriver, "driver", config.DriverPostgres, "relational driver (postgres or sqlite)")
}
