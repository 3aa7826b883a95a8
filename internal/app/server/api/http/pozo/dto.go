package pozo

import "lecturapozos/internal/domain/pozo"

// PozoAttributes - поля скважины в формате Strapi
type PozoAttributes struct {
	Nombre  string `json:"nombre" minLength:"1"`
	Bateria string `json:"bateria,omitempty"`
}

type PozoItem struct {
	ID         int            `json:"id"`
	Attributes PozoAttributes `json:"attributes"`
}

type PozoListMeta struct {
	Pagination struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

type listOutput struct {
	Body struct {
		Data []PozoItem   `json:"data"`
		Meta PozoListMeta `json:"meta"`
	}
}

type createInput struct {
	Body struct {
		Data PozoAttributes `json:"data"`
	}
}

type createOutput struct {
	Body struct {
		Data PozoItem `json:"data"`
	}
}

func toItem(p pozo.Pozo) PozoItem {
	return PozoItem{
		ID: p.ID,
		Attributes: PozoAttributes{
			Nombre:  p.Nombre,
			Bateria: p.Bateria,
		},
	}
}
