package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// LoaderFactory opens the Loader a command works with.
type LoaderFactory func() (*Loader, error)

// NewRootCommand creates the loaddata root command with its ingredients, tags and promote subcommands.
func NewRootCommand(newLoader LoaderFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loaddata",
		Short: "Seed the foodgram catalogs and manage admins",
		Long: `loaddata imports ingredients and tags from JSON files, skipping entries that
already exist, and grants the admin role to registered users.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(newImportCommand("ingredients", "Import ingredients from a JSON file of {name, measurement_unit}",
		newLoader, (*Loader).LoadIngredients))
	cmd.AddCommand(newImportCommand("tags", "Import tags from a JSON file of {name, color, slug}",
		newLoader, (*Loader).LoadTags))
	cmd.AddCommand(newPromoteCommand(newLoader))

	return cmd
}

type importFunc func(*Loader, context.Context, io.Reader) (LoadResult, error)

func newImportCommand(what, short string, newLoader LoaderFactory, load importFunc) *cobra.Command {
	return &cobra.Command{
		Use:   what + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := newLoader()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s file: %w", what, err)
			}
			defer f.Close()

			res, err := load(loader, cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", what, err)
			}
			log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msgf("%s loaded", what)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d skipped\n", what, res.Created, res.Skipped)
			return nil
		},
	}
}

func newPromoteCommand(newLoader LoaderFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to the user registered with email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := newLoader()
			if err != nil {
				return err
			}
			if err := loader.Promote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is an admin\n", args[0])
			return nil
		},
	}
}
