package entity

import "time"

// Masterdata campos comunes de todas las tablas maestras, gobernados por el
// protocolo de versión optimista: dataset_version sube exactamente en 1 por
// cada actualización exitosa; created_at es inmutable tras el alta.
// Los timestamps son segundos unix.
type Masterdata struct {
	DatasetVersion int64 `json:"dataset_version"`
	CreatedAt      int64 `json:"created_at"`
	EditedAt       int64 `json:"edited_at"`
}

// StampNew fija los campos del protocolo para un alta: versión inicial 1
// y ambos timestamps al instante dado.
func (m *Masterdata) StampNew(now time.Time) {
	m.DatasetVersion = 1
	m.CreatedAt = now.Unix()
	m.EditedAt = now.Unix()
}
