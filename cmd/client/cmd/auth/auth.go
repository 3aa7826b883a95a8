package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для операций с сессией пользователя
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление сессией",
	Long:  `Вход, регистрация и выход.`,
}
