package entity

// Store almacén físico (masterdata).
type Store struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Masterdata
}

// StoreSection sección dentro de un almacén (masterdata). Es la dimensión
// exterior del agregado de stock: cada sección tiene su propio cubo de celdas.
type StoreSection struct {
	ID       string `json:"id"`
	StoreID  string `json:"store_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Masterdata
}
