package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bitswalk/userd/src/userctl/internal/client"
	"github.com/bitswalk/userd/src/userctl/internal/output"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a user by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserGet,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	Args:  cobra.NoArgs,
	RunE:  runUserCreate,
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user",
	Long:  `Updates a user. Only the flags given on the command line are sent.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUserUpdate,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)

	userListCmd.Flags().Bool("active", false, "Only list active users")

	userCreateCmd.Flags().String("name", "", "User name (required)")
	userCreateCmd.Flags().String("email", "", "Email address (required)")
	userCreateCmd.Flags().String("phone", "", "Phone number (required)")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("phone")

	addUpdateFlags(userUpdateCmd)
}

func addUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "User name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().Bool("active", true, "Active flag (--active=false to deactivate)")
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: must be an integer", arg)
	}
	return id, nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func userRows(users []client.User) [][]string {
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			u.Phone,
			strconv.FormatBool(u.Active),
		}
	}
	return rows
}

func printUser(u *client.User) error {
	return output.PrintFormatted(getOutputFormat(), u, func() error {
		output.PrintTable(
			[]string{"FIELD", "VALUE"},
			[][]string{
				{"ID", strconv.FormatInt(u.ID, 10)},
				{"Name", u.Name},
				{"Email", u.Email},
				{"Phone", u.Phone},
				{"Active", strconv.FormatBool(u.Active)},
				{"Created", formatMillis(u.CreatedAt)},
				{"Updated", formatMillis(u.UpdatedAt)},
			},
		)
		return nil
	})
}

func runUserList(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	activeOnly, _ := cmd.Flags().GetBool("active")

	resp, err := c.ListUsers(ctx, activeOnly)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		if resp.Count == 0 {
			output.PrintMessage("No users found.")
			return nil
		}
		output.PrintTable([]string{"ID", "NAME", "EMAIL", "PHONE", "ACTIVE"}, userRows(resp.Users))
		return nil
	})
}

func runUserGet(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	resp, err := getClient().GetUser(context.Background(), id)
	if err != nil {
		return err
	}
	return printUser(resp)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")

	resp, err := c.CreateUser(ctx, &client.CreateUserRequest{
		Name:  name,
		Email: email,
		Phone: phone,
	})
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		output.PrintMessage(fmt.Sprintf("User %q created (ID: %d)", resp.Name, resp.ID))
		return nil
	})
}

// buildUpdateRequest collects only the flags set on the command line
func buildUpdateRequest(cmd *cobra.Command) *client.UpdateUserRequest {
	req := &client.UpdateUserRequest{}
	flags := cmd.Flags()

	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		req.Name = &v
	}
	if flags.Changed("email") {
		v, _ := flags.GetString("email")
		req.Email = &v
	}
	if flags.Changed("phone") {
		v, _ := flags.GetString("phone")
		req.Phone = &v
	}
	if flags.Changed("active") {
		v, _ := flags.GetBool("active")
		req.Active = &v
	}
	return req
}

func runUserUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	req := buildUpdateRequest(cmd)
	if req.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one of --name, --email, --phone, --active")
	}

	resp, err := getClient().UpdateUser(context.Background(), id, req)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {
		output.PrintMessage(fmt.Sprintf("User %d updated", resp.ID))
		return nil
	})
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	if err := getClient().DeleteUser(context.Background(), id); err != nil {
		return err
	}

	if f := getOutputFormat(); f == output.FormatJSON || f == output.FormatYAML {
		return output.PrintFormatted(f, map[string]interface{}{"deleted": id}, nil)
	}

	output.PrintMessage(fmt.Sprintf("User %d deleted", id))
	return nil
}
