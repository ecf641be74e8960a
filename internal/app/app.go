package app

import (
	"github.com/spf13/cobra"

	"github.com/1cbyc/view0x/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "view0x", Short: "Incremental smart contract analysis result engine"}
	cli.AddCommands(root)
	return root
}
