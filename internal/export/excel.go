// Package export renders order lists and dashboard summaries as xlsx
// files served as download attachments.
package export

import (
	"fmt"

	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/xuri/excelize/v2"
)

var orderHeaders = []string{
	"№ заказа", "Дата", "Клиент", "Статус", "Срок", "Позиции", "Бонус", "Скидка", "Сумма",
}

var profitHeaders = []string{
	"Период", "Продажи", "Расходы", "Прибыль",
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	style := headerStyle(f)
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// Orders renders the order list, most recent first, one row per order.
func Orders(orders []entity.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, orderHeaders)

	var total float64
	for rowIdx, o := range orders {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), o.OrderDate.Format("02.01.2006"))
		client := ""
		if o.Client != nil {
			client = o.Client.FullName
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), client)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.Status)
		if o.Deadline != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), o.Deadline.Format("02.01.2006"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(o.Items))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), o.BonusType)
		if o.BonusType == entity.BonusTypeDiscount {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("%s: %.2f", o.DiscountType, o.DiscountValue))
		}
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), o.TotalPrice)
		total += o.TotalPrice
	}

	sumRow := len(orders) + 2
	f.SetCellValue(sheet, fmt.Sprintf("H%d", sumRow), "Итого:")
	f.SetCellValue(sheet, fmt.Sprintf("I%d", sumRow), total)

	colWidths := []float64{10, 12, 24, 16, 12, 10, 12, 16, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return f, nil
}

// Dashboard renders the profit series as a summary sheet.
func Dashboard(points []service.ProfitPoint) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Сводка"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, profitHeaders)

	var sales, expenses float64
	for rowIdx, p := range points {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Period)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Sales)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Expenses)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.Profit)
		sales += p.Sales
		expenses += p.Expenses
	}

	sumRow := len(points) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", sumRow), "Итого:")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", sumRow), sales)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", sumRow), expenses)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", sumRow), sales-expenses)

	for i, w := range []float64{14, 14, 14, 14} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return f, nil
}
