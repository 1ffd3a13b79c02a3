package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/blocks"
)

func (a *app) blocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [filter]",
		Short: "Print the Unicode blocks, optionally only those whose name contains filter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := readGlobalOptions(cmd); err != nil {
				return err
			}
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			out, err := renderBlocks(filter)
			if err != nil {
				return withCode(exitCommandFailed, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// matchBlocks returns the blocks whose name contains filter, ignoring case.
func matchBlocks(filter string) []blocks.Block {
	filter = strings.ToLower(filter)
	var res []blocks.Block
	for _, b := range blocks.All() {
		if strings.Contains(strings.ToLower(b.Name), filter) {
			res = append(res, b)
		}
	}
	return res
}

func renderBlocks(filter string) (string, error) {
	data := [][]string{
		{"Start", "End", "Name"},
	}
	for _, b := range matchBlocks(filter) {
		data = append(data, []string{
			fmt.Sprintf("0x%04x", b.Start),
			fmt.Sprintf("0x%04x", b.End),
			b.Name,
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}
