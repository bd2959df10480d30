package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/colormania/internal/models"
)

const (
	SheetOrders = "Pedidos"
	SheetLines  = "Lineas"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	orderHeaders = []string{
		"ID", "Referencia", "Usuario", "Método de pago", "Total", "Estado de envío",
		"Fecha de llegada", "Creado",
	}
	lineHeaders = []string{"Pedido", "Producto", "Tipo", "Precio", "Cantidad", "Subtotal"}
)

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}

// WriteOrders renders orders and their lines into a two-sheet workbook.
// userNames maps user ids to a display name; unknown ids print the id.
func WriteOrders(w io.Writer, orders []models.Order, userNames map[uint]string) error {
	file := xlsx.NewFile()
	orderSheet, err := file.AddSheet(SheetOrders)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	lineSheet, err := file.AddSheet(SheetLines)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addHeader(orderSheet, orderHeaders)
	addHeader(lineSheet, lineHeaders)

	for _, o := range orders {
		row := orderSheet.AddRow()
		row.AddCell().SetInt(int(o.ID))
		row.AddCell().SetString(o.Reference)
		name, ok := userNames[o.UserID]
		if !ok {
			name = fmt.Sprintf("#%d", o.UserID)
		}
		row.AddCell().SetString(name)
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(o.Total.StringFixed(2))
		row.AddCell().SetString(string(o.ShippingState))
		arrival := ""
		if o.EstimatedArrival != nil {
			arrival = o.EstimatedArrival.Format("2006-01-02")
		}
		row.AddCell().SetString(arrival)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))

		for _, l := range o.Lines {
			lr := lineSheet.AddRow()
			lr.AddCell().SetInt(int(o.ID))
			lr.AddCell().SetString(l.ProductName)
			lr.AddCell().SetString(l.TypeLabel)
			lr.AddCell().SetString(l.UnitPrice.StringFixed(2))
			lr.AddCell().SetInt(l.Quantity)
			lr.AddCell().SetString(l.Subtotal().StringFixed(2))
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
