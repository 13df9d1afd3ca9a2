// Package core provides the command and server functionality for userd.
package core

import (
	"fmt"
	"os"

	"github.com/bitswalk/userd/src/common/cli"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/common/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Global logger instance
	log = logs.NewDiscard()

	// Configuration file path
	cfgFile string
)

// Linker variables - these are set via ldflags at build time
// They must be initialized as empty strings or literals for ldflags to work
var (
	Version        = "dev"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "userd",
	Short: "User management API server",
	Long: `userd serves a REST API for creating, reading, updating and deleting
user records. Every user has a unique email address.

The API is versioned and discoverable through the root endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute runs the root command
func Execute() {
	// Populate VersionInfo from linker variables
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
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "/etc/userd/userd.yaml")

	// Server flags
	rootCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.Flags().StringP("bind", "b", "0.0.0.0", "Address to bind to")
	rootCmd.Flags().Bool("auth-enabled", false, "Require an admin token for user writes and exports")

	cli.RegisterLogFlags(rootCmd)

	// Database flag is shared with the export subcommand
	rootCmd.PersistentFlags().String("db-path", "~/.userd/userd.db", "Path to persist database on shutdown")

	// Storage flags
	rootCmd.PersistentFlags().String("storage-type", "local", "Export storage backend type: 'local' or 's3'")
	rootCmd.PersistentFlags().String("storage-path", "~/.userd/exports", "Local storage path (for local backend)")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "S3-compatible storage endpoint URL")
	rootCmd.PersistentFlags().String("s3-region", "us-east-1", "S3 region")
	rootCmd.PersistentFlags().String("s3-bucket", "userd-exports", "S3 bucket for user exports")
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key ID")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret access key")
	rootCmd.PersistentFlags().Bool("s3-path-style", true, "Use path-style addressing for S3")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.bind", rootCmd.Flags().Lookup("bind"))
	_ = viper.BindPFlag("security.auth.enabled", rootCmd.Flags().Lookup("auth-enabled"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db-path"))
	_ = viper.BindPFlag("storage.type", rootCmd.PersistentFlags().Lookup("storage-type"))
	_ = viper.BindPFlag("storage.local.path", rootCmd.PersistentFlags().Lookup("storage-path"))
	_ = viper.BindPFlag("storage.s3.endpoint", rootCmd.PersistentFlags().Lookup("s3-endpoint"))
	_ = viper.BindPFlag("storage.s3.region", rootCmd.PersistentFlags().Lookup("s3-region"))
	_ = viper.BindPFlag("storage.s3.bucket", rootCmd.PersistentFlags().Lookup("s3-bucket"))
	_ = viper.BindPFlag("storage.s3.access_key", rootCmd.PersistentFlags().Lookup("s3-access-key"))
	_ = viper.BindPFlag("storage.s3.secret_key", rootCmd.PersistentFlags().Lookup("s3-secret-key"))
	_ = viper.BindPFlag("storage.s3.path_style", rootCmd.PersistentFlags().Lookup("s3-path-style"))

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.bind", "0.0.0.0")
	viper.SetDefault("database.path", "~/.userd/userd.db")
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.path", "~/.userd/exports")
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.bucket", "userd-exports")
	viper.SetDefault("storage.s3.path_style", true)
	viper.SetDefault("exports.enabled", true)

	// Security defaults
	viper.SetDefault("security.auth.enabled", false)
	viper.SetDefault("security.admin.username", "admin")
	viper.SetDefault("security.admin.password_hash", "")
	viper.SetDefault("security.token_duration", "24h")
	viper.SetDefault("security.master_key_path", "~/.userd/master.key")
	viper.SetDefault("security.rate_limit.enabled", true)
	viper.SetDefault("security.rate_limit.auth_per_min", 10)
	viper.SetDefault("security.rate_limit.api_per_min", 120)
	viper.SetDefault("security.rate_limit.trust_proxy", false)

	rootCmd.AddCommand(versionCmd, hashPasswordCmd, exportCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() error {
	opts := cli.ConfigOptions{
		ConfigName: "userd",
		ConfigType: "yaml",
		EnvPrefix:  "USERD",
		SearchPaths: []string{
			"/etc/userd",
			"~/.userd",
		},
	}
	opts.ConfigFile = cfgFile

	if err := cli.InitConfig(opts); err != nil {
		return err
	}

	log = cli.InitLogger("userd")

	return nil
}
