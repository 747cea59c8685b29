package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/petrotech/siteapi/internal/config"
	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create and list administrative users who can manage posts and contact submissions.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// openStore loads config and connects to MongoDB for a CLI operation.
func openStore(ctx context.Context) (*store.Mongo, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return store.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  siteapi admin create --email admin@example.com --password secret
  siteapi admin create --email admin@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(email, password, name)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Admin display name")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(email, password, name string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	// Prompt for password if not provided
	if password == "" {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(pwBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	admin, err := model.NewAdmin(email, name, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		if err == store.ErrConflict {
			return fmt.Errorf("admin %q already exists", admin.Email)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin user %q\n", admin.Email)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	admins, err := s.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	type adminRow struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		Active    bool   `json:"active"`
		LastLogin string `json:"last_login,omitempty"`
	}

	rows := make([]adminRow, 0, len(admins))
	for _, a := range admins {
		row := adminRow{Email: a.Email, Name: a.Name, Active: a.Active}
		if a.LastLoginAt != nil {
			row.LastLogin = a.LastLoginAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No admin users configured. Use 'siteapi admin create' to create one.")
		return nil
	}

	fmt.Printf("%-30s %-24s %-8s %s\n", "EMAIL", "NAME", "ACTIVE", "LAST LOGIN")
	fmt.Printf("%-30s %-24s %-8s %s\n", "-----", "----", "------", "----------")
	for _, r := range rows {
		active := "yes"
		if !r.Active {
			active = "no"
		}
		fmt.Printf("%-30s %-24s %-8s %s\n", r.Email, r.Name, active, r.LastLogin)
	}

	return nil
}
