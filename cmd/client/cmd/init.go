package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/auth"
	"lecturapozos/cmd/client/cmd/cache"
	"lecturapozos/cmd/client/cmd/lectura"
	"lecturapozos/cmd/client/cmd/pozo"
	"lecturapozos/cmd/client/cmd/queue"
	"lecturapozos/cmd/client/cmd/sync"
	"lecturapozos/cmd/client/cmd/types"
	"lecturapozos/internal/app/client/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние клиента",
	Long:  `Показывает связь с сервером, сессию, размер очереди и кэша.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		if app.CheckConnection(ctx) {
			fmt.Println(color.GreenString("✓ Сервер доступен"))
		} else {
			fmt.Println(color.YellowString("⚠️  Нет связи с сервером, показания будут сохранены в очередь"))
		}

		s := app.Store().State()
		if s.Session.Authenticated {
			fmt.Printf("Пользователь: %s (id %d)\n", s.Session.Username, s.Session.UserID)
		} else {
			fmt.Println("Вход не выполнен: pozos auth login")
		}

		items, err := app.QueueItems(ctx)
		if err != nil {
			return err
		}
		counts := state.CountByStatus(s)
		fmt.Printf("В очереди: %d\n", len(items))
		fmt.Printf("Показаний в кэше: %d (отправлено %d, дубликатов %d)\n",
			len(s.Lecturas.Entries), counts[state.StatusSynced], counts[state.StatusDuplicateDiscarded])
		fmt.Printf("Pozos в справочнике: %d\n", len(s.Pozos.Items))
		if !s.Pozos.LoadedAt.IsZero() {
			fmt.Printf("Справочник обновлен: %s\n", s.Pozos.LoadedAt.Local().Format("2006-01-02 15:04"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(lectura.LecturaCmd)
	lectura.LecturaCmd.AddCommand(lectura.CreateCmd)
	lectura.LecturaCmd.AddCommand(lectura.ListCmd)
	lectura.LecturaCmd.AddCommand(lectura.TicketCmd)

	rootCmd.AddCommand(pozo.PozoCmd)
	pozo.PozoCmd.AddCommand(pozo.ListCmd)

	rootCmd.AddCommand(queue.QueueCmd)
	queue.QueueCmd.AddCommand(queue.ListCmd)
	queue.QueueCmd.AddCommand(queue.ClearCmd)

	rootCmd.AddCommand(cache.CacheCmd)
	cache.CacheCmd.AddCommand(cache.ClearCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
