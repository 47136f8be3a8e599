package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"readingquest/content"
	"readingquest/internal/models"
	"readingquest/internal/repository"
	"readingquest/internal/service"
)

// readContentFiles reads the given YAML files, or the embedded defaults
// when none are given
func readContentFiles(paths []string) (map[string][]byte, error) {
	if len(paths) == 0 {
		return content.Files()
	}
	files := make(map[string][]byte, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files[path] = data
	}
	return files, nil
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.yaml ...]",
		Short: "Replace all game definitions with the given files (default: built-in content)",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readContentFiles(args)
			if err != nil {
				return err
			}

			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			defs, err := service.NewContentService(repository.NewContentRepository(db), logger).Import(cmd.Context(), files)
			if err != nil {
				return err
			}
			printDefinitions(cmd.OutOrStdout(), "Imported", defs)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored game definitions as YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			exported, err := service.NewContentService(repository.NewContentRepository(db), logger).Export(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			for _, gameType := range models.GameTypes {
				data, ok := exported[gameType]
				if !ok {
					continue
				}
				path := filepath.Join(dir, string(gameType)+".yaml")
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file.yaml ...]",
		Short: "Check game definition files without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readContentFiles(args)
			if err != nil {
				return err
			}
			logger := slog.New(slog.DiscardHandler)
			defs, err := service.NewContentService(nil, logger).Validate(files)
			if err != nil {
				return err
			}
			printDefinitions(cmd.OutOrStdout(), "Valid", defs)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			logger.Info("migrations completed")
			return nil
		},
	}
}

func printDefinitions(w io.Writer, verb string, defs []models.GameDefinition) {
	for _, def := range defs {
		fmt.Fprintf(w, "%s %s: %q\n", verb, def.GameType, def.Title)
	}
}
