package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1cbyc/view0x/internal/fp"
	"github.com/1cbyc/view0x/internal/model"
)

func newFPCmd() *cobra.Command {
	var dataFile string
	cmd := &cobra.Command{Use: "fp", Short: "Manage false positive reports and suppression learning"}
	cmd.PersistentFlags().StringVar(&dataFile, "data", ".view0x-fp.json", "False positive dataset file")

	var (
		issueID     string
		issueType   string
		fingerprint string
		line        int
		kind        string
		reason      string
		reporter    string
	)
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Record that an issue was a false positive",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openFPData(dataFile)
			if err != nil {
				return err
			}
			r := eng.Report(issueID, issueType, fingerprint, model.Location{Line: line, Kind: kind}, reason, reporter)
			if err := saveFPData(eng, dataFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", r.ID)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&issueID, "issue-id", "", "Identifier of the reported issue")
	reportCmd.Flags().StringVar(&issueType, "type", "", "Issue type")
	reportCmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Unit fingerprint the issue was reported against")
	reportCmd.Flags().IntVar(&line, "line", 0, "Issue line")
	reportCmd.Flags().StringVar(&kind, "kind", "line", "Location kind")
	reportCmd.Flags().StringVar(&reason, "reason", "", "Why the issue is a false positive")
	reportCmd.Flags().StringVar(&reporter, "reporter", "", "Who reported it")
	_ = reportCmd.MarkFlagRequired("type")
	_ = reportCmd.MarkFlagRequired("fingerprint")
	cmd.AddCommand(reportCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a reported false positive (administrative action)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openFPData(dataFile)
			if err != nil {
				return err
			}
			if !eng.Verify(issueType, fingerprint, model.Location{Line: line, Kind: kind}) {
				return fmt.Errorf("no matching unverified report for %s at line %d", issueType, line)
			}
			if err := saveFPData(eng, dataFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "verified")
			return nil
		},
	}
	verifyCmd.Flags().StringVar(&issueType, "type", "", "Issue type")
	verifyCmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Unit fingerprint")
	verifyCmd.Flags().IntVar(&line, "line", 0, "Issue line")
	verifyCmd.Flags().StringVar(&kind, "kind", "line", "Location kind")
	_ = verifyCmd.MarkFlagRequired("type")
	_ = verifyCmd.MarkFlagRequired("fingerprint")
	cmd.AddCommand(verifyCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show false positive statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openFPData(dataFile)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(eng.Stats())
		},
	})

	var exportOut string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the false positive dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openFPData(dataFile)
			if err != nil {
				return err
			}
			data, err := eng.Export()
			if err != nil {
				return err
			}
			if exportOut != "" {
				return os.WriteFile(exportOut, data, 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write dataset to file")
	cmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			eng := fp.New(fp.Options{}, newLogger(false))
			if err := eng.Import(data); err != nil {
				return err
			}
			return saveFPData(eng, dataFile)
		},
	}
	cmd.AddCommand(importCmd)

	return cmd
}

// openFPData loads the dataset file into a fresh learning engine. A missing
// file yields an empty engine; a corrupt one is an explicit error so no
// half-imported state is ever saved back.
func openFPData(path string) (*fp.Engine, error) {
	eng := fp.New(fp.Options{}, newLogger(false))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return eng, nil
	}
	if err != nil {
		return nil, err
	}
	if err := eng.Import(data); err != nil {
		return nil, err
	}
	return eng, nil
}

func saveFPData(eng *fp.Engine, path string) error {
	data, err := eng.Export()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// importFPData loads a dataset into an existing engine for analyze runs.
func importFPData(eng *fp.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return eng.Import(data)
}
