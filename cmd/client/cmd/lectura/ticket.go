package lectura

import (
	"fmt"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
)

var TicketCmd = &cobra.Command{
	Use:   "ticket <id>",
	Short: "Квитанция показания",
	Long:  `Печатает квитанцию по локальному id или по folio сервера.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		ticket, err := app.Ticket(args[0])
		if err != nil {
			return err
		}

		fmt.Println(ticket)
		return nil
	},
}
