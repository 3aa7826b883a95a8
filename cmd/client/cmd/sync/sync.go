package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
	"lecturapozos/internal/app/client"
)

var (
	watch      bool
	syncStatus bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Отправить очередь на сервер",
	Long: `Отправляет неотправленные показания на сервер в порядке записи.

С флагом --watch клиент следит за связью и отправляет очередь
каждый раз, когда связь появляется, до Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if !app.IsAuthenticated() {
			return client.ErrNotAuthenticated
		}

		if watch {
			fmt.Println("Ожидание связи... (Ctrl+C для выхода)")
			app.Watch(cmd.Context())
			return showSyncStatus(app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация ===")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	fmt.Println("Проверка соединения с сервером...")
	if !app.CheckConnection(ctx) {
		return fmt.Errorf("сервер недоступен, показания остаются в очереди")
	}

	result, err := app.Sync(ctx)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	fmt.Println()
	fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Отправлено: %d\n", result.Accepted)
	if result.Duplicates > 0 {
		fmt.Printf("Дубликатов пропущено: %d\n", result.Duplicates)
	}
	if result.FailedUploads > 0 {
		fmt.Printf("⚠️  Фото не загружено: %d\n", result.FailedUploads)
	}
	if result.Stopped {
		fmt.Printf("⚠️  Синхронизация прервана, в очереди осталось: %d\n", result.Remaining)
	} else {
		fmt.Println("✅ Очередь отправлена")
	}

	if syncStatus {
		return showSyncStatus(app)
	}
	return nil
}

func showSyncStatus(app *client.App) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(app.SyncStats())
}

func init() {
	SyncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "следить за связью и отправлять очередь автоматически")
	SyncCmd.Flags().BoolVar(&syncStatus, "stats", false, "показать статистику синхронизации")
}
