package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
)

// CacheCmd - локальный кэш данных сервера
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Локальный кэш",
}

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Сбросить кэш",
	Long: `Удаляет кэшированные показания и справочник pozos.
Очередь неотправленных показаний не затрагивается.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.ClearCache(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("✓ Кэш очищен")
		return nil
	},
}
