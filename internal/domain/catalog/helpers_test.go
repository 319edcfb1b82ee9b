package catalog

import "github.com/shopspring/decimal"

func dec(i int64) decimal.Decimal { return decimal.NewFromInt(i) }
