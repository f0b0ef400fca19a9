package treasury

// EUR is a helper for test to create euro amounts from const
func EUR(v float64) Amount { return A(v, "EUR") }

// NO is a helper for test to create amounts with no currency set
func NO(v float64) Amount { return A(v, "") }
