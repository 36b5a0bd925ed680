package dto

import "github.com/shopspring/decimal"

// Requests de las tablas maestras. Los Update* llevan la fila completa más
// la dataset_version que el caller cree vigente; una versión obsoleta se
// rechaza con conflicto y el caller debe releer (nunca se reintenta aquí).

type CreateArticleRequest struct {
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode"`
	Unit           string          `json:"unit"`
	Price          decimal.Decimal `json:"price"`
	ManufacturerID string          `json:"manufacturer_id"`
	CostUnitID     string          `json:"cost_unit_id"`
	Hashtags       []string        `json:"hashtags"`
	Description    string          `json:"description"`
}

type UpdateArticleRequest struct {
	CreateArticleRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateAttributeRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type CreateImageReferenceRequest struct {
	FileName  string `json:"file_name"`
	SortIndex int    `json:"sort_index"`
}

type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type UpdateStoreRequest struct {
	CreateStoreRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateStoreSectionRequest struct {
	StoreID  string `json:"store_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type UpdateStoreSectionRequest struct {
	CreateStoreSectionRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateManufacturerRequest struct {
	Name string `json:"name"`
}

type UpdateManufacturerRequest struct {
	CreateManufacturerRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateReceiverRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateReceiverRequest struct {
	CreateReceiverRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateHashtagRequest struct {
	Name string `json:"name"`
}

type UpdateHashtagRequest struct {
	CreateHashtagRequest
	DatasetVersion int64 `json:"dataset_version"`
}

type CreateCostUnitRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type UpdateCostUnitRequest struct {
	CreateCostUnitRequest
	DatasetVersion int64 `json:"dataset_version"`
}
