package cmd

import (
	"log"

	"github.com/spf13/cobra"

	config "activity-tracker.com/activity-tracker/internal/configs"
	"activity-tracker.com/activity-tracker/internal/report"
	repository "activity-tracker.com/activity-tracker/internal/repositories"
	"activity-tracker.com/activity-tracker/internal/services"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Inspect and maintain stored activities",
}

var (
	listFrom string
	listTo   string
)

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print activities ordered by commitment date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kv, closeStore := config.NewStore(ctx, loadConfig())
		defer closeStore()

		activities, err := services.NewActivityService(repository.NewActivityRepository(kv)).List(ctx, listFrom, listTo)
		if err != nil {
			return err
		}
		users, err := services.DirectoryUsers(ctx, repository.NewUserRepository(kv))
		if err != nil {
			return err
		}

		return report.WriteActivities(cmd.OutOrStdout(), activities, users)
	},
}

var activitiesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite legacy activity records in the current format",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kv, closeStore := config.NewStore(ctx, loadConfig())
		defer closeStore()

		n, err := services.NewActivityService(repository.NewActivityRepository(kv)).Migrate(ctx)
		if err != nil {
			return err
		}

		log.Printf("%d activities up to date", n)
		return nil
	},
}

func init() {
	activitiesListCmd.Flags().StringVar(&listFrom, "from", "", "earliest commitment date (YYYY-MM-DD)")
	activitiesListCmd.Flags().StringVar(&listTo, "to", "", "latest commitment date (YYYY-MM-DD)")

	activitiesCmd.AddCommand(activitiesListCmd, activitiesMigrateCmd)
	rootCmd.AddCommand(activitiesCmd)
}
