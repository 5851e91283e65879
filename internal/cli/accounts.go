package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/internal/config"
	"github.com/vladimirs1981/employee-info/services"
)

var (
	accountEmail string
	accountRole  string
)

var grantRoleCmd = &cobra.Command{
	Use:   "grant-role",
	Short: "Set the role of an existing user",
	Long: `Set the role of an existing user. Use it to bootstrap the first admin.

Examples:
  employee-info grant-role --email ana@quantox.com --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := authz.ParseRole(accountRole)
		if !ok {
			return fmt.Errorf("unknown role %q", accountRole)
		}

		pg, err := openDB()
		if err != nil {
			return err
		}
		defer pg.Close()

		users := services.NewUserService(pg, config.App.EmailDomain)
		user, err := users.GetUserByEmail(cmd.Context(), accountEmail)
		if err != nil {
			return err
		}
		if _, err := users.SetRole(cmd.Context(), user.ID, role); err != nil {
			return err
		}
		log.Printf("User %s (id %d) is now %s", user.Email, user.ID, role)
		return nil
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Print a bearer token for an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := openDB()
		if err != nil {
			return err
		}
		defer pg.Close()

		users := services.NewUserService(pg, config.App.EmailDomain)
		auth := services.NewAuthService(pg, users, services.NewJWTService(config.App.JWTSecret, config.App.JWTTTL), config.App.EmailDomain)

		user, err := users.GetUserByEmail(cmd.Context(), accountEmail)
		if err != nil {
			return err
		}
		token, err := auth.IssueToken(cmd.Context(), user)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grantRoleCmd, issueTokenCmd)

	grantRoleCmd.Flags().StringVar(&accountEmail, "email", "", "Email of the user")
	grantRoleCmd.Flags().StringVar(&accountRole, "role", "", "admin, project_manager or employee")
	_ = grantRoleCmd.MarkFlagRequired("email")
	_ = grantRoleCmd.MarkFlagRequired("role")

	issueTokenCmd.Flags().StringVar(&accountEmail, "email", "", "Email of the user")
	_ = issueTokenCmd.MarkFlagRequired("email")
}
