package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bitswalk/userd/src/userctl/internal/client"
	"github.com/spf13/cobra"
)

// =============================================================================
// Test Helpers
// =============================================================================

// setupTestClient creates a mock HTTP server and injects a client pointing to it
func setupTestClient(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mux)
	apiClient = client.New(srv.URL)
	return srv
}

// resetGlobals resets global state between tests
func resetGlobals() {
	apiClient = nil
	outputFormat = "table"
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "update"}
	addUpdateFlags(cmd)
	return cmd
}

func sampleUser(id int64, email string) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "name": "John", "email": email, "phone": "555-0100",
		"active": true, "created_at": 1700000000000, "updated_at": 1700000000000,
	}
}

// =============================================================================
// Command Registration Tests
// =============================================================================

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"version", "health", "login", "logout", "whoami", "user", "export"}

	commands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected subcommand %q not found on root", name)
		}
	}
}

func TestUserCommand_HasSubcommands(t *testing.T) {
	expected := []string{"list", "get", "create", "update", "delete"}
	commands := make(map[string]bool)
	for _, cmd := range userCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected user subcommand %q not found", name)
		}
	}
}

func TestExportCommand_HasSubcommands(t *testing.T) {
	expected := []string{"create", "list", "get"}
	commands := make(map[string]bool)
	for _, cmd := range exportCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected export subcommand %q not found", name)
		}
	}
}

func TestUserCommand_Alias(t *testing.T) {
	if len(userCmd.Aliases) == 0 || userCmd.Aliases[0] != "users" {
		t.Error("expected user alias 'users'")
	}
}

// =============================================================================
// Arg Validation Tests
// =============================================================================

func TestUserGetCmd_RequiresArg(t *testing.T) {
	if err := userGetCmd.Args(userGetCmd, []string{}); err == nil {
		t.Error("expected error for missing arg on user get")
	}
	if err := userGetCmd.Args(userGetCmd, []string{"1"}); err != nil {
		t.Errorf("unexpected error for valid arg: %v", err)
	}
	if err := userGetCmd.Args(userGetCmd, []string{"1", "2"}); err == nil {
		t.Error("expected error for two args on user get")
	}
}

func TestUserDeleteCmd_RequiresArg(t *testing.T) {
	if err := userDeleteCmd.Args(userDeleteCmd, []string{}); err == nil {
		t.Error("expected error for missing arg on user delete")
	}
}

func TestUserListCmd_RejectsArgs(t *testing.T) {
	if err := userListCmd.Args(userListCmd, []string{"extra"}); err == nil {
		t.Error("expected error for positional arg on user list")
	}
}

func TestParseUserID(t *testing.T) {
	if id, err := parseUserID("42"); err != nil || id != 42 {
		t.Errorf("parseUserID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "1.5", "99999999999999999999"} {
		if _, err := parseUserID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// =============================================================================
// Flag Tests
// =============================================================================

func TestUserCreateCmd_HasRequiredFlags(t *testing.T) {
	for _, name := range []string{"name", "email", "phone"} {
		flag := userCreateCmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag on user create", name)
			continue
		}
		if _, ok := flag.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
			t.Errorf("expected --%s to be required", name)
		}
	}
}

func TestUserListCmd_HasActiveFlag(t *testing.T) {
	if userListCmd.Flags().Lookup("active") == nil {
		t.Error("expected --active flag on user list")
	}
}

func TestRootCmd_OutputFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	if flag == nil {
		t.Fatal("expected --output persistent flag on root")
	}
	if flag.DefValue != "table" {
		t.Errorf("expected default output format 'table', got %q", flag.DefValue)
	}
}

func TestRootCmd_ServerFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("server")
	if flag == nil {
		t.Fatal("expected --server persistent flag on root")
	}
	if flag.Shorthand != "s" {
		t.Errorf("expected shorthand 's' for --server, got %q", flag.Shorthand)
	}
}

// =============================================================================
// Update Request Tests
// =============================================================================

func TestBuildUpdateRequest_OnlyChangedFlags(t *testing.T) {
	cmd := newUpdateCmd()
	if err := cmd.Flags().Set("email", "new@example.com"); err != nil {
		t.Fatal(err)
	}

	req := buildUpdateRequest(cmd)
	if req.Email == nil || *req.Email != "new@example.com" {
		t.Errorf("expected email to be set, got %v", req.Email)
	}
	if req.Name != nil || req.Phone != nil || req.Active != nil {
		t.Error("expected unset flags to stay absent")
	}
}

func TestBuildUpdateRequest_ActiveFalse(t *testing.T) {
	cmd := newUpdateCmd()
	if err := cmd.Flags().Set("active", "false"); err != nil {
		t.Fatal(err)
	}

	req := buildUpdateRequest(cmd)
	if req.Active == nil || *req.Active {
		t.Error("expected active=false to be sent")
	}
}

func TestUserUpdate_NothingToUpdate(t *testing.T) {
	defer resetGlobals()

	err := runUserUpdate(newUpdateCmd(), []string{"1"})
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("expected nothing to update error, got %v", err)
	}
}

// =============================================================================
// Command Execution Tests (with mock server)
// =============================================================================

func TestUserList_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 2,
			"users": []map[string]interface{}{sampleUser(1, "a@example.com"), sampleUser(2, "b@example.com")},
		})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	outputFormat = "json"
	if err := runUserList(userListCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserList_ActiveUsesActiveEndpoint(t *testing.T) {
	defer resetGlobals()

	var hit bool
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/active", func(w http.ResponseWriter, r *http.Request) {
		hit = true
		json.NewEncoder(w).Encode(map[string]interface{}{"count": 0, "users": []interface{}{}})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	cmd := &cobra.Command{Use: "list"}
	cmd.Flags().Bool("active", false, "")
	cmd.Flags().Set("active", "true")

	if err := runUserList(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("expected /v1/users/active to be requested")
	}
}

func TestUserGet_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleUser(1, "john@example.com"))
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	outputFormat = "yaml"
	if err := runUserGet(userGetCmd, []string{"1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserGet_InvalidID(t *testing.T) {
	defer resetGlobals()

	if err := runUserGet(userGetCmd, []string{"abc"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestUserCreate_MockServer(t *testing.T) {
	defer resetGlobals()

	var body map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sampleUser(7, "john@example.com"))
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	cmd := &cobra.Command{Use: "create"}
	cmd.Flags().String("name", "", "")
	cmd.Flags().String("email", "", "")
	cmd.Flags().String("phone", "", "")
	cmd.Flags().Set("name", "John")
	cmd.Flags().Set("email", "john@example.com")
	cmd.Flags().Set("phone", "555-0100")

	outputFormat = "json"
	if err := runUserCreate(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["email"] != "john@example.com" || body["name"] != "John" || body["phone"] != "555-0100" {
		t.Errorf("unexpected request body: %v", body)
	}
}

func TestUserUpdate_MockServer(t *testing.T) {
	defer resetGlobals()

	var body map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/3", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		json.NewEncoder(w).Encode(sampleUser(3, "new@example.com"))
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	cmd := newUpdateCmd()
	cmd.Flags().Set("email", "new@example.com")

	if err := runUserUpdate(cmd, []string{"3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 1 || body["email"] != "new@example.com" {
		t.Errorf("expected only email in body, got %v", body)
	}
}

func TestUserDelete_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	outputFormat = "json"
	if err := runUserDelete(userDeleteCmd, []string{"1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealthCommand_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "timestamp": "2024-01-15T10:30:00Z"})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	if err := runHealth(healthCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWhoami_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"valid": true, "username": "admin", "expires_at": "2030-01-01T00:00:00Z",
		})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()
	apiClient.Token = "tok"

	if err := runWhoami(whoamiCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExportList_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/exports", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"exports": []map[string]interface{}{
				{"key": "users-1700000000000.json.xz", "size": 120, "last_modified": "2024-01-15T10:30:00Z"},
			},
		})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	if err := runExportList(exportListCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExportCreate_MockServer(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/exports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"key": "users-1700000000000.json.xz", "count": 2, "size": 120, "exported_at": 1700000000000,
		})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	outputFormat = "json"
	if err := runExportCreate(exportCreateCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// =============================================================================
// Error Handling Tests
// =============================================================================

func TestUserGet_ServerError(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "user.not_found", "message": "User not found with id: 99"})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	err := runUserGet(userGetCmd, []string{"99"})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !client.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUserCreate_Conflict(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user.email_exists", "message": "Email already exists: john@example.com"})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	cmd := &cobra.Command{Use: "create"}
	cmd.Flags().String("name", "John", "")
	cmd.Flags().String("email", "john@example.com", "")
	cmd.Flags().String("phone", "555-0100", "")

	err := runUserCreate(cmd, []string{})
	if err == nil || !strings.Contains(err.Error(), "Email already exists") {
		t.Errorf("expected conflict error, got %v", err)
	}
}

// =============================================================================
// Output Format Tests
// =============================================================================

func TestGetOutputFormat(t *testing.T) {
	defer resetGlobals()

	for _, f := range []string{"json", "yaml", "table"} {
		outputFormat = f
		if got := getOutputFormat(); got != f {
			t.Errorf("expected %s, got %s", f, got)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	if got := formatMillis(0); got != "" {
		t.Errorf("expected empty string for zero, got %q", got)
	}
	if got := formatMillis(1700000000000); got != "2023-11-14T22:13:20Z" {
		t.Errorf("unexpected formatted time %q", got)
	}
}

func TestVersionInfo_Defaults(t *testing.T) {
	if VersionInfo == nil {
		t.Fatal("expected VersionInfo to be initialized")
	}
	if Version != "dev" {
		t.Errorf("expected default Version 'dev', got %q", Version)
	}
}

// =============================================================================
// Completion Tests
// =============================================================================

func TestCompletionUserIDs(t *testing.T) {
	defer resetGlobals()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"users": []map[string]interface{}{sampleUser(5, "e@example.com")},
		})
	})
	srv := setupTestClient(t, mux)
	defer srv.Close()

	got, directive := completionUserIDs(userGetCmd, []string{}, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("unexpected directive %v", directive)
	}
	if len(got) != 1 || got[0] != "5\te@example.com" {
		t.Errorf("unexpected completions %v", got)
	}

	if got, _ := completionUserIDs(userGetCmd, []string{"5"}, ""); got != nil {
		t.Errorf("expected no completions after first arg, got %v", got)
	}
}

func TestCompletionOutputFormat(t *testing.T) {
	got, _ := completionOutputFormat(rootCmd, nil, "")
	if len(got) != 3 {
		t.Errorf("expected 3 output formats, got %v", got)
	}
}
