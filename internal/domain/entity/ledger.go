package entity

import "time"

// Receipt entrada de stock (libro append-only). Las filas nunca se
// actualizan ni borran por la API normal; solo se insertan y se agregan.
// dataset_id lo asigna el almacén de filas de forma secuencial.
type Receipt struct {
	DatasetID    int64     `json:"dataset_id"`
	ArticleID    string    `json:"article_id"`
	SectionID    string    `json:"section_id"`
	ArticleCount int64     `json:"article_count"`
	EventAt      time.Time `json:"event_at"`
	Note         string    `json:"note"`
	CreatedBy    string    `json:"created_by"`
}

// Emission salida de stock (libro append-only).
type Emission struct {
	DatasetID    int64     `json:"dataset_id"`
	ArticleID    string    `json:"article_id"`
	SectionID    string    `json:"section_id"`
	ArticleCount int64     `json:"article_count"`
	EventAt      time.Time `json:"event_at"`
	ReceiverID   string    `json:"receiver_id"`
	CostUnitID   string    `json:"cost_unit_id"`
	Note         string    `json:"note"`
	CreatedBy    string    `json:"created_by"`
}

// LedgerSum suma de article_count agrupada por (sección, artículo)
// sobre un intervalo del libro.
type LedgerSum struct {
	SectionID string
	ArticleID string
	Total     int64
}
