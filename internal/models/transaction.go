package models

// Transaction is a single sale line as supplied by the dataset.
type Transaction struct {
	ID       string  `json:"id"`
	Product  string  `json:"product"`
	Category string  `json:"category"`
	Country  string  `json:"country"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
}

func (t Transaction) Revenue() float64 {
	return float64(t.Quantity) * t.Price
}

// MonthKey returns the YYYY-MM prefix of the date. Dates shorter than
// seven bytes are returned unchanged.
func (t Transaction) MonthKey() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

type ProductUnits struct {
	Product string `json:"product"`
	Units   int    `json:"units"`
}

type GroupTotal struct {
	Key     string  `json:"key"`
	Revenue float64 `json:"revenue"`
}

type Filter struct {
	Category string `json:"category"`
	Search   string `json:"search"`
}
