package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	itemsSheet      = "Shopping List"
)

var xlsxHeaders = []any{"Component", "Quantity", "Vendor", "Price", "Currency", "Product URL", "Notes"}

// WriteShoppingListXLSX renders the list as a workbook: every item on the
// first sheet, then one sheet per vendor in name order.
func WriteShoppingListXLSX(list *ShoppingList) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, err
	}
	if err := writeItems(f, itemsSheet, list.Items); err != nil {
		return nil, err
	}

	totalRow := len(list.Items) + 3
	if err := f.SetSheetRow(itemsSheet, fmt.Sprintf("A%d", totalRow), &[]any{"Total", list.TotalItems, "", list.TotalCost, list.Currency}); err != nil {
		return nil, err
	}

	vendors := make([]string, 0, len(list.ByVendor))
	for v := range list.ByVendor {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	used := map[string]bool{strings.ToLower(itemsSheet): true}
	for _, v := range vendors {
		name := sheetName(v, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeItems(f, name, list.ByVendor[v]); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeItems(f *excelize.File, sheet string, items []ShoppingItem) error {
	if err := f.SetSheetRow(sheet, "A1", &xlsxHeaders); err != nil {
		return err
	}
	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			item.ComponentName,
			item.Quantity,
			item.Vendor,
			item.Price,
			item.Currency,
			deref(item.ProductURL),
			deref(item.Notes),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes a vendor name usable as a sheet name: at most 31
// characters, none of : \ / ? * [ ], and unique within the workbook
// ignoring case.
func sheetName(vendor string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, vendor)
	name = strings.Trim(name, "' ")
	if name == "" {
		name = unknownVendor
	}
	name = truncate(name, 31)

	base := name
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
