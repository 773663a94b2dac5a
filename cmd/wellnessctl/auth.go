package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	user, err := st.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	return st.auth.Logout(ctx)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	st, shutdown, err := initStack(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	user := st.auth.CurrentUser()
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	return printJSON(user)
}
