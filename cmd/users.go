package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	config "activity-tracker.com/activity-tracker/internal/configs"
	repository "activity-tracker.com/activity-tracker/internal/repositories"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the user directory",
}

var usersFile string

var usersImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the user directory with a JSON array of users",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(usersFile)
		if err != nil {
			return fmt.Errorf("read users file: %w", err)
		}

		ctx := cmd.Context()
		kv, closeStore := config.NewStore(ctx, loadConfig())
		defer closeStore()

		n, err := repository.NewUserRepository(kv).Import(ctx, data)
		if err != nil {
			return err
		}

		log.Printf("imported %d users", n)
		return nil
	},
}

func init() {
	usersImportCmd.Flags().StringVarP(&usersFile, "file", "f", "", "path to the users JSON file")
	_ = usersImportCmd.MarkFlagRequired("file")

	usersCmd.AddCommand(usersImportCmd)
	rootCmd.AddCommand(usersCmd)
}
