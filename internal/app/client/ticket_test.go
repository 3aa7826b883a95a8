package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lecturapozos/internal/app/client/state"
)

func TestRenderTicket(t *testing.T) {
	e := state.Entry{
		LocalID:            "0190-local",
		ServerID:           412,
		Pozo:               "35",
		Bateria:            "Norte",
		LecturaVolumetrica: "12345",
		LecturaElectrica:   "678",
		Observaciones:      "Medidor empañado",
		FechaCaptura:       time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Status:             state.StatusSynced,
		MissingPhotos:      []string{FieldFotoElectrico},
	}

	out := RenderTicket(e)

	for _, want := range []string{"LECTURA DE POZO", "412", "35", "Norte", "12345", "678", "enviada", FieldFotoElectrico, "Medidor empañado"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "0190-local", "при наличии серверного id печатается он")
}

func TestRenderTicket_PendingUsesLocalID(t *testing.T) {
	out := RenderTicket(state.Entry{
		LocalID:   "abc",
		Pozo:      "7",
		CreatedAt: time.Now(),
		Status:    state.StatusPendingLocal,
	})

	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "pendiente de envío")
	assert.NotContains(t, out, "Sin foto")
}
