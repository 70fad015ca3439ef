package kitchen_test

import (
	"pos/internal/core/domain/model/menu"

	"github.com/shopspring/decimal"
)

func burgerEntry() menu.Entry {
	return menu.Entry{
		ID:         "burger",
		Name:       "Burger",
		Variations: []menu.Variation{{Name: "single", Price: decimal.NewFromInt(10)}},
		AddonGroups: []menu.AddonGroup{{
			Name:   "Extras",
			Addons: []menu.Addon{{ID: "cheese", Name: "Cheese", Price: decimal.RequireFromString("1.5")}},
		}},
	}
}
