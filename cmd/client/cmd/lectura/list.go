package lectura

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lecturapozos/cmd/client/cmd/types"
	"lecturapozos/internal/app/client"
	"lecturapozos/internal/app/client/state"
)

const dateLayout = "2006-01-02"

var (
	listFormat string
	fPozo      string
	fBateria   string
	fDesde     string
	fHasta     string
	fStatus    []string
	fSearch    string
	fMine      bool
	fToday     bool
	fRefresh   bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список показаний",
	Long: `Показания из локального кэша: отправленные и ожидающие отправки.

С флагом --refresh кэш сначала обновляется с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if fRefresh {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if _, err := app.RefreshLecturas(ctx); err != nil {
				fmt.Printf("⚠️  Показан кэш: %v\n", err)
			}
		}

		preds, err := buildFilters(app)
		if err != nil {
			return err
		}

		entries := app.ListLecturas(preds...)
		if fToday {
			entries = state.SelectForToday(state.State{Lecturas: state.LecturasState{Entries: entries}}, time.Now())
		}

		switch listFormat {
		case "json":
			return printJSON(entries)
		case "table":
			return printTable(entries)
		case "csv":
			return printCSV(entries)
		default:
			return printSimple(entries)
		}
	},
}

func buildFilters(app *client.App) ([]state.Predicate, error) {
	var preds []state.Predicate

	if fPozo != "" {
		preds = append(preds, state.ByPozo(fPozo))
	}
	if fBateria != "" {
		preds = append(preds, state.ByBateria(fBateria))
	}
	if fDesde != "" || fHasta != "" {
		var from, to time.Time
		var err error
		if fDesde != "" {
			if from, err = time.ParseInLocation(dateLayout, fDesde, time.Local); err != nil {
				return nil, fmt.Errorf("неверная дата --desde: %w", err)
			}
		}
		if fHasta != "" {
			if to, err = time.ParseInLocation(dateLayout, fHasta, time.Local); err != nil {
				return nil, fmt.Errorf("неверная дата --hasta: %w", err)
			}
			// включительно до конца дня
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		preds = append(preds, state.ByDateRange(from, to))
	}
	if len(fStatus) > 0 {
		statuses := make([]state.Status, 0, len(fStatus))
		for _, s := range fStatus {
			statuses = append(statuses, state.Status(s))
		}
		preds = append(preds, state.ByStatus(statuses...))
	}
	if fSearch != "" {
		preds = append(preds, state.Search(fSearch))
	}
	if fMine {
		preds = append(preds, state.ByCapturador(app.Store().State().Session.UserID))
	}

	return preds, nil
}

func folio(e state.Entry) string {
	if e.ServerID != 0 {
		return strconv.Itoa(e.ServerID)
	}
	return e.LocalID
}

func printSimple(entries []state.Entry) error {
	if len(entries) == 0 {
		fmt.Println("Показания не найдены")
		return nil
	}

	fmt.Printf("Найдено показаний: %d\n\n", len(entries))

	for i, e := range entries {
		mark := "✓"
		if e.Status.IsPending() {
			mark = "…"
		} else if e.Status == state.StatusDuplicateDiscarded {
			mark = "✗"
		}

		fmt.Printf("%d. [%s] pozo %s %s\n", i+1, mark, e.Pozo, e.Bateria)
		fmt.Printf("   Folio: %s | Vol: %s | Elec: %s | %s\n",
			folio(e),
			e.LecturaVolumetrica,
			e.LecturaElectrica,
			e.FechaCaptura.Local().Format("2006-01-02 15:04"))
		if len(e.MissingPhotos) > 0 {
			fmt.Printf("   ⚠️  без фото: %v\n", e.MissingPhotos)
		}
		fmt.Println()
	}

	return nil
}

func printTable(entries []state.Entry) error {
	if len(entries) == 0 {
		fmt.Println("Показания не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Folio\tPozo\tBatería\tVolumétrico\tEléctrico\tEstado\tFecha\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t---\t\n")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			truncate(folio(e), 12),
			e.Pozo,
			e.Bateria,
			e.LecturaVolumetrica,
			e.LecturaElectrica,
			client.StatusLabel(e.Status),
			e.FechaCaptura.Local().Format("2006-01-02 15:04"),
		)
	}

	w.Flush()
	fmt.Printf("\nВсего показаний: %d\n", len(entries))
	return nil
}

func printJSON(entries []state.Entry) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func printCSV(entries []state.Entry) error {
	fmt.Println("folio,pozo,bateria,lectura_volumetrica,lectura_electrica,gasto,status,fecha_captura")

	for _, e := range entries {
		fmt.Printf("%s,%q,%q,%q,%q,%q,%s,%s\n",
			folio(e),
			e.Pozo,
			e.Bateria,
			e.LecturaVolumetrica,
			e.LecturaElectrica,
			e.Gasto,
			e.Status,
			e.FechaCaptura.Format(time.RFC3339),
		)
	}

	return nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "формат вывода (simple, table, json, csv)")
	ListCmd.Flags().StringVarP(&fPozo, "pozo", "p", "", "фильтр по pozo")
	ListCmd.Flags().StringVarP(&fBateria, "bateria", "b", "", "фильтр по батарее")
	ListCmd.Flags().StringVar(&fDesde, "desde", "", "с даты (YYYY-MM-DD)")
	ListCmd.Flags().StringVar(&fHasta, "hasta", "", "по дату включительно (YYYY-MM-DD)")
	ListCmd.Flags().StringSliceVar(&fStatus, "status", nil, "статусы: pending_local, pending_sync, synced, duplicate_discarded")
	ListCmd.Flags().StringVarP(&fSearch, "search", "s", "", "поиск по тексту")
	ListCmd.Flags().BoolVar(&fMine, "mine", false, "только мои показания")
	ListCmd.Flags().BoolVar(&fToday, "today", false, "только за сегодня")
	ListCmd.Flags().BoolVarP(&fRefresh, "refresh", "r", false, "обновить кэш с сервера")
}
