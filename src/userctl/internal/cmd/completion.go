package cmd

import (
	"context"
	"strconv"

	"github.com/bitswalk/userd/src/userctl/internal/output"
	"github.com/spf13/cobra"
)

func registerCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("output", completionOutputFormat)

	userGetCmd.ValidArgsFunction = completionUserIDs
	userUpdateCmd.ValidArgsFunction = completionUserIDs
	userDeleteCmd.ValidArgsFunction = completionUserIDs
	exportGetCmd.ValidArgsFunction = completionExportKeys
}

// completionUserIDs completes user IDs with the email as description
func completionUserIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	resp, err := getClient().ListUsers(context.Background(), false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	suggestions := make([]string, len(resp.Users))
	for i, u := range resp.Users {
		suggestions[i] = strconv.FormatInt(u.ID, 10) + "\t" + u.Email
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completionExportKeys completes stored export keys
func completionExportKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	resp, err := getClient().ListExports(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	suggestions := make([]string, len(resp.Exports))
	for i, e := range resp.Exports {
		suggestions[i] = e.Key
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

func completionOutputFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{output.FormatTable, output.FormatJSON, output.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
}
