package lectura

import (
	"github.com/spf13/cobra"
)

// LecturaCmd - родительская команда для операций с показаниями
var LecturaCmd = &cobra.Command{
	Use:     "lectura",
	Aliases: []string{"lecturas"},
	Short:   "Показания счетчиков",
	Long:    `Захват, просмотр и печать квитанций показаний.`,
}
