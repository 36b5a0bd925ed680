package entity

import "github.com/shopspring/decimal"

// Article artículo del almacén (masterdata).
type Article struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode"`
	Unit           string          `json:"unit"` // unidad de medida: pieza, kg, litro...
	Price          decimal.Decimal `json:"price"`
	ManufacturerID string          `json:"manufacturer_id"`
	CostUnitID     string          `json:"cost_unit_id"`
	Hashtags       []string        `json:"hashtags"`
	Description    string          `json:"description"`
	Masterdata
}

// Attribute par clave/valor adicional de un artículo (masterdata).
type Attribute struct {
	ID        string `json:"id"`
	ArticleID string `json:"article_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Masterdata
}

// ImageReference referencia a una imagen de artículo (masterdata).
// El contenido binario y el redimensionado viven fuera de este backend.
type ImageReference struct {
	ID        string `json:"id"`
	ArticleID string `json:"article_id"`
	FileName  string `json:"file_name"`
	SortIndex int    `json:"sort_index"`
	Masterdata
}
