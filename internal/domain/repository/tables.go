package repository

// Nombres de tabla, compartidos entre persistencia, estadísticas,
// notificaciones de cambio y el volcado de respaldo.
const (
	TableArticles        = "articles"
	TableAttributes      = "attributes"
	TableImageReferences = "image_references"
	TableStores          = "stores"
	TableStoreSections   = "store_sections"
	TableManufacturers   = "manufacturers"
	TableReceivers       = "receivers"
	TableHashtags        = "hashtags"
	TableCostUnits       = "cost_units"
	TableUsers           = "users"
	TableReceipts        = "receipts"
	TableEmissions       = "emissions"
)

// WriteOptions variantes del protocolo de escritura versionada, usadas solo
// por la importación masiva de un volcado completo, donde la continuidad de
// dataset_version debe preservarse en lugar de avanzar.
type WriteOptions struct {
	NoCheckDatasetVersion    bool // omite el predicado de versión
	NoIncreaseDatasetVersion bool // conserva la versión enviada
	NoTableStatsUpdate       bool // omite estadística y notificación de cambio
}
