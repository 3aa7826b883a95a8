package client

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type NotificationKind string

const (
	NotifyAccepted  NotificationKind = "accepted"
	NotifyDuplicate NotificationKind = "duplicate"
)

// Notification - кратковременное сообщение для техника
type Notification struct {
	Kind          NotificationKind
	LocalID       string
	Pozo          string
	ServerID      int
	FailedUploads []string
}

func (n Notification) Message() string {
	switch n.Kind {
	case NotifyAccepted:
		msg := fmt.Sprintf("Показание pozo %s отправлено (id %d)", n.Pozo, n.ServerID)
		if len(n.FailedUploads) > 0 {
			msg += fmt.Sprintf(", фото не загружены: %s", strings.Join(n.FailedUploads, ", "))
		}
		return msg
	case NotifyDuplicate:
		return fmt.Sprintf("Показание pozo %s за этот период уже есть, пропущено", n.Pozo)
	default:
		return string(n.Kind)
	}
}

// Notifier доставляет уведомления в интерфейс. Ошибки синхронизации сюда не попадают.
type Notifier interface {
	Notify(n Notification)
}

// ConsoleNotifier печатает уведомления в терминал
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (c *ConsoleNotifier) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch n.Kind {
	case NotifyAccepted:
		if len(n.FailedUploads) > 0 {
			fmt.Fprintln(c.out, color.YellowString("⚠️  %s", n.Message()))
			return
		}
		fmt.Fprintln(c.out, color.GreenString("✓ %s", n.Message()))
	case NotifyDuplicate:
		fmt.Fprintln(c.out, color.YellowString("⚠️  %s", n.Message()))
	default:
		fmt.Fprintln(c.out, n.Message())
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
