package lectura

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
	"lecturapozos/internal/app/client"
)

var (
	req        client.CaptureRequest
	noSync     bool
	showTicket bool
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Записать показание",
	Long: `Сохраняет показание в локальную очередь и, если есть связь,
сразу отправляет очередь на сервер.

Пример:
  pozos lectura create --pozo 35 --volumetrica 12345 --electrica 678 \
    --foto-volumetrico ./vol.jpg --foto-electrico ./ele.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		item, err := app.Capture(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Показание сохранено (id %s)\n", item.ID)

		if showTicket {
			if ticket, err := app.Ticket(item.ID); err == nil {
				fmt.Println(ticket)
			}
		}

		if noSync {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if !app.CheckConnection(ctx) {
			fmt.Println("⚠️  Нет связи: показание будет отправлено позже (pozos sync)")
			return nil
		}

		if _, err := app.Sync(ctx); err != nil && !errors.Is(err, client.ErrDrainInProgress) {
			return fmt.Errorf("ошибка синхронизации: %w", err)
		}

		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&req.Pozo, "pozo", "p", "", "pozo (обязательно)")
	CreateCmd.Flags().StringVar(&req.LecturaVolumetrica, "volumetrica", "", "показание объемного счетчика")
	CreateCmd.Flags().StringVar(&req.LecturaElectrica, "electrica", "", "показание электросчетчика")
	CreateCmd.Flags().StringVar(&req.Gasto, "gasto", "", "расход")
	CreateCmd.Flags().StringVar(&req.Observaciones, "observaciones", "", "примечания")
	CreateCmd.Flags().StringVar(&req.FotoVolumetrico, "foto-volumetrico", "", "фото объемного счетчика")
	CreateCmd.Flags().StringVar(&req.FotoElectrico, "foto-electrico", "", "фото электросчетчика")
	CreateCmd.Flags().BoolVar(&noSync, "no-sync", false, "только сохранить в очередь")
	CreateCmd.Flags().BoolVar(&showTicket, "ticket", false, "напечатать квитанцию")

	_ = CreateCmd.MarkFlagRequired("pozo")
}
