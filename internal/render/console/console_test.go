package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockdesk/internal/dialog"
	"stockdesk/internal/domain"
	"stockdesk/internal/render/console"
)

func TestRenderer_StockDialog(t *testing.T) {
	var out bytes.Buffer
	r := console.NewRenderer(&out, strings.NewReader(""))

	r.ShowStockDialog("Estoque - Parafuso (atual: 15 unidades)")
	r.RenderPreview(domain.Preview{Predicted: 10, Band: domain.SeverityWarning})
	r.RenderMessage(dialog.MessageError, "Estoque insuficiente")
	r.PatchSummaryRow(3, 0, domain.SeverityDanger)

	assert.Equal(t,
		"== Estoque - Parafuso (atual: 15 unidades) ==\n"+
			"previsto: 10 [BAIXO]\n"+
			"[ERROR] Estoque insuficiente\n"+
			"produto #3: 0 [CRÍTICO]\n",
		out.String())
}

func TestRenderer_SetSubmitting_Transitions(t *testing.T) {
	var out bytes.Buffer
	r := console.NewRenderer(&out, strings.NewReader(""))

	r.SetSubmitting(false)
	r.SetSubmitting(true)
	r.SetSubmitting(true)
	r.SetSubmitting(false)

	assert.Equal(t, "... enviando (aguarde o resultado)\n... envio liberado\n", out.String())
}

func TestRenderer_HistoryRows_Aligned(t *testing.T) {
	var out bytes.Buffer
	r := console.NewRenderer(&out, strings.NewReader(""))
	r.HistoryHeader = []string{"DATE", "TYPE", "QTY", "BEFORE", "AFTER", "USER", "REMARKS"}

	r.RenderHistoryRows([]dialog.HistoryRow{
		{Date: "2024-03-09 14:05", Type: "Out", Quantity: "5", Before: "15", After: "10", UserID: "ana", Remarks: "-"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.Equal(t, strings.Index(lines[0], "TYPE"), strings.Index(lines[1], "Out"))
}

func TestRenderer_Confirm(t *testing.T) {
	cases := map[string]bool{"s\n": true, "SIM\n": true, "y": true, "\n": false, "n\n": false, "": false}

	for input, want := range cases {
		var out bytes.Buffer
		r := console.NewRenderer(&out, strings.NewReader(input))

		assert.Equal(t, want, r.Confirm("Excluir?"), "entrada %q", input)
		assert.Equal(t, "Excluir? [s/N]: ", out.String())
	}
}
