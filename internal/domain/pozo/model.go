package pozo

import "time"

// Pozo - скважина из справочника
type Pozo struct {
	ID        int
	Nombre    string
	Bateria   string
	CreatedAt time.Time
}
