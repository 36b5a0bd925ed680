package dto

import "time"

// RecordReceiptRequest alta en el libro de entradas. EventAt opcional
// (por defecto el instante del servidor).
type RecordReceiptRequest struct {
	ArticleID    string     `json:"article_id"`
	SectionID    string     `json:"section_id"`
	ArticleCount int64      `json:"article_count"`
	EventAt      *time.Time `json:"event_at"`
	Note         string     `json:"note"`
}

// RecordEmissionRequest alta en el libro de salidas.
type RecordEmissionRequest struct {
	ArticleID    string     `json:"article_id"`
	SectionID    string     `json:"section_id"`
	ArticleCount int64      `json:"article_count"`
	EventAt      *time.Time `json:"event_at"`
	ReceiverID   string     `json:"receiver_id"`
	CostUnitID   string     `json:"cost_unit_id"`
	Note         string     `json:"note"`
}
