package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"lecturapozos/internal/app/client/state"
)

const ticketWidth = 40

var (
	ticketBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(ticketWidth)

	ticketTitle = lipgloss.NewStyle().
			Bold(true).
			Width(ticketWidth - 2).
			Align(lipgloss.Center)

	ticketLabel = lipgloss.NewStyle().
			Width(16)
)

var statusLabels = map[state.Status]string{
	state.StatusPendingLocal:       "pendiente de envío",
	state.StatusPendingSync:        "enviando",
	state.StatusSynced:             "enviada",
	state.StatusDuplicateDiscarded: "duplicada, descartada",
}

// StatusLabel возвращает подпись статуса для квитанции и списков
func StatusLabel(s state.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// RenderTicket формирует текстовую квитанцию показания
func RenderTicket(e state.Entry) string {
	folio := e.LocalID
	if e.ServerID != 0 {
		folio = strconv.Itoa(e.ServerID)
	}

	fecha := e.FechaCaptura
	if fecha.IsZero() {
		fecha = e.CreatedAt
	}

	rows := [][2]string{
		{"Folio", folio},
		{"Pozo", e.Pozo},
		{"Batería", e.Bateria},
		{"Fecha", fecha.Local().Format("2006-01-02 15:04")},
		{"Volumétrico", e.LecturaVolumetrica},
		{"Eléctrico", e.LecturaElectrica},
		{"Gasto", e.Gasto},
		{"Estado", StatusLabel(e.Status)},
	}
	if len(e.MissingPhotos) > 0 {
		rows = append(rows, [2]string{"Sin foto", strings.Join(e.MissingPhotos, ", ")})
	}

	var b strings.Builder
	b.WriteString(ticketTitle.Render("LECTURA DE POZO"))
	b.WriteString("\n\n")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, ticketLabel.Render(r[0]+":"), r[1]))
		b.WriteString("\n")
	}
	if e.Observaciones != "" {
		b.WriteString("\nObservaciones:\n")
		b.WriteString(e.Observaciones)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Impreso %s", time.Now().Format("2006-01-02 15:04")))

	return ticketBox.Render(b.String())
}
