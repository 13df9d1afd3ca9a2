package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bitswalk/userd/src/userctl/internal/output"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Manage user exports",
}

var exportCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot all users to server storage",
	Args:  cobra.NoArgs,
	RunE:  runExportCreate,
}

var exportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored exports",
	Args:  cobra.NoArgs,
	RunE:  runExportList,
}

var exportGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Download an export and print its users",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportGet,
}

func init() {
	exportCmd.AddCommand(exportCreateCmd)
	exportCmd.AddCommand(exportListCmd)
	exportCmd.AddCommand(exportGetCmd)
}

func runExportCreate(cmd *cobra.Command, args []string) error {
	resp, err := getClient().CreateExport(context.Background())
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		output.PrintMessage(fmt.Sprintf("Exported %d users to %s (%d bytes)", resp.Count, resp.Key, resp.Size))
		return nil
	})
}

func runExportList(cmd *cobra.Command, args []string) error {
	resp, err := getClient().ListExports(context.Background())
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		if resp.Count == 0 {
			output.PrintMessage("No exports found.")
			return nil
		}

		rows := make([][]string, len(resp.Exports))
		for i, e := range resp.Exports {
			rows[i] = []string{e.Key, strconv.FormatInt(e.Size, 10), e.LastModified.UTC().Format(time.RFC3339)}
		}
		output.PrintTable([]string{"KEY", "SIZE", "MODIFIED"}, rows)
		return nil
	})
}

func runExportGet(cmd *cobra.Command, args []string) error {
	resp, err := getClient().GetExport(context.Background(), args[0])
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		output.PrintMessage(fmt.Sprintf("Exported at %s, %d users", formatMillis(resp.ExportedAt), resp.Count))
		if resp.Count > 0 {
			output.PrintTable([]string{"ID", "NAME", "EMAIL", "PHONE", "ACTIVE"}, userRows(resp.Users))
		}
		return nil
	})
}
