package aigen

import (
	"fmt"
	"strconv"

	"mealgen/internal/catalog"
)

// ItemDoc builds the document string an item is embedded under. The shape is
// kept stable across runs so vector meaning stays comparable.
func ItemDoc(it catalog.Item) string {
	price := ""
	if it.Price != nil {
		price = strconv.FormatFloat(*it.Price, 'f', -1, 64)
	}
	return fmt.Sprintf("name: %s\nstore: %s\ncategory: %s\nunit_size: %s\nprice: %s",
		it.Name, it.Store, it.CategoryPath, it.UnitSize, price)
}
