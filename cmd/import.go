package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/taskhive/taskhive/internal/configs"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/xlsx"
)

var (
	importFile  string
	importEmail string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tasks from a spreadsheet",
	Long:  "Appends every buildable row of a spreadsheet to a user's task collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		kvStore, closeKV := newKVStore(cfg)
		defer closeKV()

		taskStore := newTaskStore(cfg, kvStore)
		authService := services.NewAuthService(kvStore)
		syncService := services.NewSyncService(taskStore)

		ctx := context.Background()

		user, err := authService.SignIn(ctx, importEmail)
		if err != nil {
			return err
		}
		if _, err := syncService.Load(ctx, user); err != nil {
			return err
		}

		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := xlsx.Decode(f)
		if err != nil {
			return err
		}

		result := services.BuildTasksFromRows(rows, syncService.SnapshotTasks(), user.ID)
		if _, err := syncService.AppendBatch(ctx, result.Tasks); err != nil {
			return err
		}

		fmt.Printf("imported %d tasks (%d rows skipped)\n", result.Built, result.Skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "spreadsheet to import")
	importCmd.Flags().StringVarP(&importEmail, "email", "e", "", "owner email")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(importCmd)
}
