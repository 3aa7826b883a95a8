package pozo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
)

// PozoCmd - справочник скважин
var PozoCmd = &cobra.Command{
	Use:     "pozo",
	Aliases: []string{"pozos"},
	Short:   "Справочник pozos",
}

var (
	refresh bool
	bateria string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список pozos",
	Long:  `Показывает справочник из кэша; --refresh загружает его с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if refresh {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if _, err := app.RefreshPozos(ctx); err != nil {
				return err
			}
		}

		pozos := app.Pozos()
		if len(pozos.Items) == 0 {
			fmt.Println("Справочник пуст. Выполните: pozos pozo list --refresh")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tPozo\tBatería\t\n")
		fmt.Fprintf(w, "---\t---\t---\t\n")
		n := 0
		for _, p := range pozos.Items {
			if bateria != "" && !strings.EqualFold(p.Bateria, bateria) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t\n", p.ID, p.Nombre, p.Bateria)
			n++
		}
		w.Flush()

		fmt.Printf("\nВсего: %d", n)
		if !pozos.LoadedAt.IsZero() {
			fmt.Printf(" (обновлено %s)", pozos.LoadedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()

		return nil
	},
}

func init() {
	ListCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "загрузить справочник с сервера")
	ListCmd.Flags().StringVarP(&bateria, "bateria", "b", "", "фильтр по батарее")
}
