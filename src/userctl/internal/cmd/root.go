// Package cmd implements the userctl commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/bitswalk/userd/src/common/cli"
	"github.com/bitswalk/userd/src/common/version"
	"github.com/bitswalk/userd/src/userctl/internal/client"
	"github.com/bitswalk/userd/src/userctl/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Configuration file path
	cfgFile string

	// Output format (table, json or yaml)
	outputFormat string

	// API client instance
	apiClient *client.Client
)

// Linker variables - set via ldflags at build time
var (
	Version        = "dev"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "userctl",
	Short: "userd CLI Client",
	Long: `userctl is the command-line client for the userd API server.

It lists, creates, updates and deletes user records and manages exports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config init for version command without --server flag
		if cmd.Name() == "version" && !cmd.Flags().Changed("server") {
			return nil
		}
		return initConfig()
	},
}

// Execute runs the root command
func Execute() {
	VersionInfo.Version = Version
	VersionInfo.ReleaseVersion = ReleaseVersion
	VersionInfo.BuildDate = BuildDate
	VersionInfo.GitCommit = GitCommit

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "~/.userctl/userctl.yaml")

	rootCmd.PersistentFlags().StringP("server", "s", "", "userd server URL (default: http://localhost:8080)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")

	cli.RegisterLogFlags(rootCmd)

	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	viper.SetDefault("server.url", "http://localhost:8080")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(exportCmd)

	registerCompletions()
}

func initConfig() error {
	opts := cli.ConfigOptions{
		ConfigName: "userctl",
		ConfigType: "yaml",
		EnvPrefix:  "USERCTL",
		SearchPaths: []string{
			"/etc/userctl",
			"~/.userctl",
		},
	}
	opts.ConfigFile = cfgFile

	return cli.InitConfig(opts)
}

// getClient returns the API client, creating it if needed.
// It loads the stored token when it was issued by the same server.
func getClient() *client.Client {
	if apiClient == nil {
		serverURL := viper.GetString("server.url")
		apiClient = client.New(serverURL)

		tokenData, err := config.LoadToken()
		if err == nil && tokenData.Token != "" && (tokenData.ServerURL == "" || tokenData.ServerURL == serverURL) {
			apiClient.Token = tokenData.Token
		}
	}
	return apiClient
}

// getOutputFormat returns the current output format
func getOutputFormat() string {
	return outputFormat
}
