package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/1cbyc/view0x/internal/config"
	"github.com/1cbyc/view0x/internal/deps"
)

func newDepsCmd() *cobra.Command {
	var flattenMain string
	cmd := &cobra.Command{
		Use:   "deps <file> [files...]",
		Short: "Report declaration and import dependency structure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(filepath.Dir(args[0]))
			if err != nil {
				return err
			}
			opts := deps.Options{DeepChainThreshold: cfg.DeepChainThreshold}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if len(args) == 1 && flattenMain == "" {
				content, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return enc.Encode(deps.Analyze(string(content), opts))
			}

			units := map[string]string{}
			for _, path := range args {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				units[filepath.Base(path)] = string(b)
			}
			if flattenMain != "" {
				fmt.Fprintln(cmd.OutOrStdout(), deps.Flatten(units, flattenMain))
				return nil
			}
			return enc.Encode(deps.AnalyzeUnits(units, opts))
		},
	}
	cmd.Flags().StringVar(&flattenMain, "flatten", "", "Merge the units into one source with this main unit last")
	return cmd
}
