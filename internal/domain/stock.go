package domain

type StockRecord struct {
	ProductID int64
	Amount    int
}

func (s StockRecord) Covers(amount int) bool {
	return s.Amount >= amount
}
