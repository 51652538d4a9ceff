package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
)

var (
	contentDir string
	contentDB  string
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Validate and import scenario content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a content bundle for dangling references and bad effects",
	Long: `Validate loads every YAML file in --dir (or the embedded campaigns when
--dir is empty) and reports missing scenarios, unparsable effects and
unreachable nodes. It exits non-zero when the bundle is not playable.`,
	RunE: runContentValidate,
}

var contentImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a content bundle into a SQLite content database",
	RunE:  runContentImport,
}

func init() {
	contentCmd.PersistentFlags().StringVar(&contentDir, "dir", "", "directory of YAML content (default: embedded campaigns)")
	contentImportCmd.Flags().StringVar(&contentDB, "db", "", "SQLite database path")
	_ = contentImportCmd.MarkFlagRequired("db")

	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentImportCmd)
}

func loadContentBundle() (*content.Bundle, error) {
	if contentDir != "" {
		return content.LoadDir(contentDir)
	}
	return content.LoadDefault()
}

func runContentValidate(cmd *cobra.Command, _ []string) error {
	bundle, err := loadContentBundle()
	if err != nil {
		return err
	}

	report := content.ValidateBundle(cmd.Context(), bundle)
	fmt.Fprint(cmd.OutOrStdout(), report.String())
	if !report.OK() {
		return fmt.Errorf("content is not valid")
	}
	return nil
}

func runContentImport(cmd *cobra.Command, _ []string) error {
	bundle, err := loadContentBundle()
	if err != nil {
		return err
	}

	report := content.ValidateBundle(cmd.Context(), bundle)
	if !report.OK() {
		fmt.Fprint(cmd.ErrOrStderr(), report.String())
		return fmt.Errorf("refusing to import invalid content")
	}

	store, err := content.OpenSQLite(cmd.Context(), contentDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Import(cmd.Context(), bundle); err != nil {
		return fmt.Errorf("failed to import content: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scenarios and %d campaigns into %s\n",
		report.ScenarioCount, report.CampaignCount, contentDB)
	return nil
}
