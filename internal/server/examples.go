package server

// Examples are the sample situations offered by the form.
var Examples = []string{
	"Additional costs due to expected fluctuation of staff",
	"Increased operational expenses from market volatility",
	"System downtime causing production delays and customer dissatisfaction",
	"New competitor entry affecting market share and pricing strategy",
}
