package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long:  `Удаляет сохраненный токен. Неотправленные показания остаются в очереди.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		items, err := app.QueueItems(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Logout(); err != nil {
			return err
		}

		fmt.Println("✓ Выход выполнен")
		if len(items) > 0 {
			fmt.Printf("⚠️  В очереди осталось показаний: %d. Они будут отправлены после входа.\n", len(items))
		}

		return nil
	},
}
