package application

// Quantity sizes the reference trade: how much base currency the notional
// buys at the given price.
func Quantity(notionalUSD, buyPrice float64) float64 {
	return notionalUSD / buyPrice
}

// NetProfit is the fee-adjusted outcome of buying quantity at buyPrice and
// selling it at sellPrice: revenue after the sell fee minus cost including
// the buy fee.
func NetProfit(quantity, buyPrice, sellPrice, buyFee, sellFee float64) float64 {
	cost := quantity * buyPrice * (1 + buyFee)
	revenue := quantity * sellPrice * (1 - sellFee)
	return revenue - cost
}

// PercentSpread is the buy→sell price difference relative to the buy price.
func PercentSpread(buyPrice, sellPrice float64) float64 {
	return (sellPrice - buyPrice) / buyPrice * 100
}
