package lectura

import "time"

const (
	EstadoCapturada = "capturada"

	periodoLayout = "2006-01"
)

// Lectura - показание счетчиков скважины
type Lectura struct {
	ID                 int
	Pozo               string
	LecturaVolumetrica string
	LecturaElectrica   string
	Gasto              string
	Observaciones      string
	FechaCaptura       time.Time
	Capturador         int
	Estado             string
	// Periodo - месяц захвата (YYYY-MM); на скважину допускается одно показание за период
	Periodo   string
	CreatedAt time.Time
}

// Filter - условия выборки списка показаний
type Filter struct {
	Pozo       string
	Periodo    string
	Capturador int
	Limit      int
}

// PeriodoOf возвращает расчетный период для даты захвата
func PeriodoOf(t time.Time) string {
	return t.Format(periodoLayout)
}
