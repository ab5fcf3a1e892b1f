package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sportrium/assistant/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the canonical cities and sports",
	Long: `Load the entity catalog (ENTITIES_FILE) and print its canonical cities and
sports. A missing or malformed file prints an empty catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := catalog.NewLoader(cfg.EntitiesFile, logger).Load()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file:   %s\n", cfg.EntitiesFile)
		fmt.Fprintf(out, "cities: %s\n", strings.Join(c.CityNames(), ", "))
		fmt.Fprintf(out, "sports: %s\n", strings.Join(c.SportNames(), ", "))
		return nil
	},
}
