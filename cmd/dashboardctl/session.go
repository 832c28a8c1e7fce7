package main

import (
	"fmt"
	"os"

	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/spf13/cobra"
)

var loginInput models.LoginInput

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginInput.Password == "" {
			loginInput.Password = os.Getenv("DASHBOARD_PASSWORD")
		}
		session, err := application.Sessions.Login(cmd.Context(), loginInput)
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(session)
		}
		fmt.Printf("Signed in as %s\n", session.UserID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Forget the stored session",
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Sessions.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := application.Users.Profile(cmd.Context(), "")
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(user)
		}
		fmt.Printf("ID:     %s\n", user.ID)
		fmt.Printf("Name:   %s\n", user.Name)
		if user.Email != "" {
			fmt.Printf("Email:  %s\n", user.Email)
		}
		if user.Rating != nil {
			fmt.Printf("Rating: %.1f\n", *user.Rating)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginInput.Email, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginInput.Password, "password", "", "account password (or DASHBOARD_PASSWORD)")
}
