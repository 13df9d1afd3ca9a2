package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bitswalk/userd/src/userctl/internal/config"
	"github.com/bitswalk/userd/src/userctl/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the userd server",
	Long:  `Exchanges admin credentials for a token and stores it locally.`,
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the principal behind the stored token",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Admin username")
	loginCmd.Flags().StringP("password", "p", "", "Admin password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	if username == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}

	if password == "" {
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(bytePassword)
	}

	c := getClient()
	ctx := context.Background()

	resp, err := c.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	serverURL := viper.GetString("server.url")
	tokenData := &config.TokenData{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt.Format(time.RFC3339),
		ServerURL: serverURL,
		Username:  resp.Username,
	}

	if err := config.SaveToken(tokenData); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	c.Token = resp.Token

	if f := getOutputFormat(); f == output.FormatJSON || f == output.FormatYAML {
		return output.PrintFormatted(f, map[string]interface{}{
			"message":    "Login successful",
			"username":   resp.Username,
			"server":     serverURL,
			"expires_at": tokenData.ExpiresAt,
		}, nil)
	}

	output.PrintMessage(fmt.Sprintf("Logged in as %s on %s (token expires %s)", resp.Username, serverURL, tokenData.ExpiresAt))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := config.ClearToken(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	if apiClient != nil {
		apiClient.Token = ""
	}

	if f := getOutputFormat(); f == output.FormatJSON || f == output.FormatYAML {
		return output.PrintFormatted(f, map[string]string{"message": "Logged out"}, nil)
	}

	output.PrintMessage("Logged out successfully.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	resp, err := getClient().Validate(context.Background())
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		output.PrintTable(
			[]string{"FIELD", "VALUE"},
			[][]string{
				{"Username", resp.Username},
				{"Expires", resp.ExpiresAt.Format(time.RFC3339)},
			},
		)
		return nil
	})
}
