package auth

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lecturapozos/cmd/client/cmd/types"
)

var (
	identifier string
	stdin      = bufio.NewReader(os.Stdin)
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему",
	Long: `Аутентификация на сервере.

После входа токен сохраняется локально, а справочник pozos
загружается в кэш для работы без связи.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		if identifier == "" {
			identifier, err = prompt("Usuario o email: ")
			if err != nil {
				return err
			}
		}

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		user, err := app.Login(ctx, identifier, password)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Printf("✅ Вход выполнен: %s\n", user.Username)

		fmt.Println("Загрузка справочника pozos...")
		if pozos, err := app.RefreshPozos(ctx); err != nil {
			fmt.Printf("⚠️  Предупреждение: %v\n", err)
		} else {
			fmt.Printf("✓ Загружено pozos: %d\n", len(pozos))
		}

		return nil
	},
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("ошибка чтения ввода: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(password), nil
}

func init() {
	LoginCmd.Flags().StringVarP(&identifier, "user", "u", "", "имя пользователя или email")
}
