package queue

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
)

// QueueCmd - локальная очередь неотправленных показаний
var QueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Очередь неотправленных показаний",
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Содержимое очереди в порядке отправки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		items, err := app.QueueItems(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Очередь пуста")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "#\tID\tPozo\tFotos\tCreado\t\n")
		for i, it := range items {
			fields := make([]string, 0, len(it.Attachments))
			for _, a := range it.Attachments {
				fields = append(fields, a.Field)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
				i+1,
				it.ID,
				it.Payload.Pozo,
				strings.Join(fields, ","),
				it.CreatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		w.Flush()

		fmt.Printf("\nВ очереди: %d\n", len(items))
		return nil
	},
}

var confirm bool

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Удалить все неотправленные показания",
	Long:  `Ручной сброс очереди. Удаленные показания не будут отправлены.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if !confirm {
			return fmt.Errorf("показания будут потеряны; для подтверждения добавьте --yes")
		}

		n, err := app.ClearQueue(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("✓ Удалено из очереди: %d\n", n)
		return nil
	},
}

func init() {
	ClearCmd.Flags().BoolVarP(&confirm, "yes", "y", false, "подтвердить удаление")
}
