// internal/commands/auth.go
package palu

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/logging"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in to the analysis backend and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")

		token, err := Client().Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		// Token first, so the profile fetch below is authenticated.
		if err := CurrentSession().SetCredentials(token.AccessToken, nil); err != nil {
			return err
		}

		user, err := Client().Me(cmd.Context())
		if err != nil {
			return err
		}
		if err := CurrentSession().SetCredentials(token.AccessToken, user); err != nil {
			return err
		}

		logging.LogEvent("signed in as %s", user.Username)
		fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the backend token and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Backend revocation is best effort; the local session goes away
		// regardless.
		if err := Client().Logout(cmd.Context()); err != nil {
			logging.LogEvent("backend logout failed: %v", err)
		}
		if err := CurrentSession().Invalidate(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account on the analysis backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		fullName, _ := cmd.Flags().GetString("full-name")
		role, _ := cmd.Flags().GetString("role")
		hospital, _ := cmd.Flags().GetString("hospital")
		department, _ := cmd.Flags().GetString("department")

		user, err := Client().Register(cmd.Context(), api.RegisterRequest{
			Username:     args[0],
			Email:        email,
			Password:     password,
			FullName:     fullName,
			Role:         role,
			HospitalName: hospital,
			Department:   department,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Account created for %s. Run 'palu login %s' to sign in.\n", user.Username, user.Username)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := Client().Me(cmd.Context())
		if err != nil {
			return err
		}
		if DebugEnabled() {
			pp.Println(user)
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Username, user.Role)
		if user.FullName != "" {
			fmt.Printf("  name:        %s\n", user.FullName)
		}
		if user.HospitalName != "" {
			fmt.Printf("  hospital:    %s\n", user.HospitalName)
		}
		fmt.Printf("  email:       %s\n", user.Email)
		fmt.Printf("  predictions: %d\n", user.TotalPredictions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().String("email", "", "account email address")
	registerCmd.Flags().StringP("password", "p", "", "account password")
	registerCmd.Flags().String("full-name", "", "full display name")
	registerCmd.Flags().String("role", "doctor", "account role (admin, doctor, lab_technician, researcher)")
	registerCmd.Flags().String("hospital", "", "hospital name")
	registerCmd.Flags().String("department", "", "department")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
}
