package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Register users and rotate passwords",
	Long: `Manage the users whose books tradelog keeps.

Subcommands:
  register - Create a user and seed its default settings
  passwd   - Change a user's password

Examples:
  tradelog user register me@example.com --password s3cret!
  tradelog user passwd --user me@example.com --old s3cret! --new n3wer!`,
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRegister,
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a user's password",
	Args:  cobra.NoArgs,
	RunE:  runUserPasswd,
}

var (
	userPassword    string
	userOldPassword string
	userNewPassword string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userPasswdCmd)
	addUserFlag(userPasswdCmd)

	userRegisterCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password (required)")
	userRegisterCmd.MarkFlagRequired("password")

	userPasswdCmd.Flags().StringVar(&userOldPassword, "old", "", "current password (required)")
	userPasswdCmd.Flags().StringVar(&userNewPassword, "new", "", "new password (required)")
	userPasswdCmd.MarkFlagRequired("old")
	userPasswdCmd.MarkFlagRequired("new")
}

func runUserRegister(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.auth.Register(ctx, args[0], userPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s (id %d)\n", u.Email, u.ID)
		return nil
	})
}

func runUserPasswd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		if err := a.auth.ChangePassword(ctx, u.ID, userOldPassword, userNewPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Password changed for %s\n", u.Email)
		return nil
	})
}
