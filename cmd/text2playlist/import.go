package main

import (
	"fmt"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/cognicore/text2playlist/internal/tracks"
	"github.com/cognicore/text2playlist/pkg/playlist/catalog/sqlite"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dbPath, dataPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSONL track export into a SQLite catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath = strings.TrimSpace(dbPath)
			dataPath = strings.TrimSpace(dataPath)
			if dbPath == "" || dataPath == "" {
				return fmt.Errorf("--db and --data are required")
			}
			logger := ctx.logger(cmd.ErrOrStderr())

			lock := flock.New(dbPath + ".lock")
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another import is running against %s", dbPath)
			}
			defer lock.Unlock()

			entries, err := tracks.LoadFromJSONL(dataPath, logger)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, skipped, err := store.UpsertTracks(cmd.Context(), entries)
			if err != nil {
				return err
			}
			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("import complete", "stored", stored, "skipped", skipped, "total", total)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tracks (%d skipped), catalog now holds %d\n", stored, skipped, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite catalog path")
	cmd.Flags().StringVar(&dataPath, "data", "", "JSONL file of tracks")

	return cmd
}
