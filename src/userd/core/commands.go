package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bitswalk/userd/src/userd/auth"
	"github.com/bitswalk/userd/src/userd/db"
	"github.com/bitswalk/userd/src/userd/export"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "userd "+VersionInfo.Full())
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash an admin password for security.admin.password_hash",
	Long: `Reads a password and prints its bcrypt hash. On a terminal the password
is prompted for twice without echo; otherwise the first line of stdin is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one snapshot of the persisted users to export storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		result, err := runExport(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d users to %s (%d bytes)\n", result.Count, result.Key, result.Size)
		return nil
	},
}

// readPassword prompts on a terminal and falls back to the first input line
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Fprint(prompt, "Confirm password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		if string(first) != string(second) {
			return "", fmt.Errorf("passwords do not match")
		}
		if len(first) == 0 {
			return "", fmt.Errorf("password must not be empty")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

// runExport loads the persisted database read-only and snapshots it
func runExport(ctx context.Context) (*export.Result, error) {
	db.SetLogger(log)
	export.SetLogger(log)

	database, err := db.New(db.Config{
		PersistPath: viper.GetString("database.path"),
		LoadOnStart: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// the running server owns the persisted file
	defer database.Close()

	backend, err := newStorageBackend(ctx)
	if err != nil {
		return nil, err
	}

	manager := users.NewManager(db.NewUserRepository(database), database)
	return export.NewExporter(manager, backend).Snapshot(ctx)
}
