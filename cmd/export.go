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
	exportFile  string
	exportEmail string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's tasks to a spreadsheet",
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

		user, err := authService.SignIn(ctx, exportEmail)
		if err != nil {
			return err
		}
		tasks, err := syncService.Load(ctx, user)
		if err != nil {
			return err
		}

		f, err := os.Create(exportFile)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := xlsx.Encode(f, services.ExportHeaders, services.ExportRows(tasks)); err != nil {
			return err
		}

		fmt.Printf("exported %d tasks to %s\n", len(tasks), exportFile)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "tasks.xlsx", "output spreadsheet")
	exportCmd.Flags().StringVarP(&exportEmail, "email", "e", "", "owner email")
	_ = exportCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(exportCmd)
}
