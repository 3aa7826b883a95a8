package lectura

import (
	"time"

	"lecturapozos/internal/domain/lectura"
)

// LecturaData - поля показания в теле запроса {data: {...}}
type LecturaData struct {
	Pozo               string    `json:"pozo" minLength:"1"`
	LecturaVolumetrica string    `json:"lectura_volumetrica" minLength:"1"`
	LecturaElectrica   string    `json:"lectura_electrica" minLength:"1"`
	Gasto              string    `json:"gasto,omitempty"`
	Observaciones      string    `json:"observaciones,omitempty"`
	FechaCaptura       time.Time `json:"fecha_captura,omitempty"`
	Capturador         int       `json:"capturador,omitempty" doc:"Игнорируется: берется из сессии"`
	Estado             string    `json:"estado,omitempty"`
}

// LecturaAttributes - поля показания в ответе
type LecturaAttributes struct {
	Pozo               string    `json:"pozo"`
	LecturaVolumetrica string    `json:"lectura_volumetrica"`
	LecturaElectrica   string    `json:"lectura_electrica"`
	Gasto              string    `json:"gasto"`
	Observaciones      string    `json:"observaciones"`
	FechaCaptura       time.Time `json:"fecha_captura"`
	Capturador         int       `json:"capturador"`
	Estado             string    `json:"estado"`
	Periodo            string    `json:"periodo"`
	CreatedAt          time.Time `json:"createdAt"`
}

type LecturaItem struct {
	ID         int               `json:"id"`
	Attributes LecturaAttributes `json:"attributes"`
}

type LecturaListMeta struct {
	Pagination struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

type createInput struct {
	Body struct {
		Data LecturaData `json:"data"`
	}
}

type createOutput struct {
	Body struct {
		Data LecturaItem `json:"data"`
	}
}

type listInput struct {
	Pozo    string `query:"pozo" doc:"Фильтр по скважине"`
	Periodo string `query:"periodo" doc:"Фильтр по периоду YYYY-MM"`
	Mine    bool   `query:"mine" doc:"Только показания текущего пользователя"`
	Limit   int    `query:"limit" minimum:"0" maximum:"500"`
}

type listOutput struct {
	Body struct {
		Data []LecturaItem   `json:"data"`
		Meta LecturaListMeta `json:"meta"`
	}
}

func (d LecturaData) toDomain() lectura.Lectura {
	return lectura.Lectura{
		Pozo:               d.Pozo,
		LecturaVolumetrica: d.LecturaVolumetrica,
		LecturaElectrica:   d.LecturaElectrica,
		Gasto:              d.Gasto,
		Observaciones:      d.Observaciones,
		FechaCaptura:       d.FechaCaptura,
		Capturador:         d.Capturador,
		Estado:             d.Estado,
	}
}

func toItem(l lectura.Lectura) LecturaItem {
	return LecturaItem{
		ID: l.ID,
		Attributes: LecturaAttributes{
			Pozo:               l.Pozo,
			LecturaVolumetrica: l.LecturaVolumetrica,
			LecturaElectrica:   l.LecturaElectrica,
			Gasto:              l.Gasto,
			Observaciones:      l.Observaciones,
			FechaCaptura:       l.FechaCaptura,
			Capturador:         l.Capturador,
			Estado:             l.Estado,
			Periodo:            l.Periodo,
			CreatedAt:          l.CreatedAt,
		},
	}
}
