package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/colormania/internal/models"
)

func TestWriteOrders(t *testing.T) {
	arrival := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{{
		ID:               3,
		Reference:        "20260301120000-abc",
		UserID:           9,
		PaymentMethod:    models.PaymentOXXO,
		Total:            decimal.RequireFromString("150"),
		ShippingState:    models.ShippingPreparing,
		EstimatedArrival: &arrival,
		Lines: []models.OrderLine{{
			ProductName: "Azul Marino (#112233)",
			UnitPrice:   decimal.RequireFromString("50"),
			Quantity:    3,
			TypeLabel:   "Personalizado",
		}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, orders, map[uint]string{9: "Ana López"}))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	ordersSheet, ok := f.Sheet[SheetOrders]
	require.True(t, ok)
	require.Len(t, ordersSheet.Rows, 2)
	row := ordersSheet.Rows[1]
	assert.Equal(t, "20260301120000-abc", row.Cells[1].Value)
	assert.Equal(t, "Ana López", row.Cells[2].Value)
	assert.Equal(t, "150.00", row.Cells[4].Value)
	assert.Equal(t, "2026-03-08", row.Cells[6].Value)

	lines, ok := f.Sheet[SheetLines]
	require.True(t, ok)
	require.Len(t, lines.Rows, 2)
	assert.Equal(t, "Azul Marino (#112233)", lines.Rows[1].Cells[1].Value)
	assert.Equal(t, "150.00", lines.Rows[1].Cells[5].Value)
}
