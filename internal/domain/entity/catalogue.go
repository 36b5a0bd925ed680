package entity

// Manufacturer fabricante de artículos (masterdata).
type Manufacturer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Masterdata
}

// Receiver destinatario de salidas de stock (masterdata).
type Receiver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Masterdata
}

// Hashtag etiqueta libre para clasificar artículos (masterdata).
type Hashtag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Masterdata
}

// CostUnit unidad de coste a la que se imputan las salidas (masterdata).
type CostUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Masterdata
}
