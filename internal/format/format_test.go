package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

func TestSearchReplyNoResults(t *testing.T) {
	got := SearchReply(models.KindDNI, "12345678", nil)
	assert.Contains(t, got, "Todo limpio")
	assert.Contains(t, got, "12345678")
	assert.NotContains(t, got, "Reporte #")

	got = SearchReply(models.KindTelefono, "3794267780", nil)
	assert.Contains(t, got, "3794267780")
	assert.Contains(t, got, "DNI o nombre")

	got = SearchReply(models.KindNombre, "juan perez", nil)
	assert.Contains(t, got, "juan perez")
	assert.Contains(t, got, "búsqueda más exacta")

	got = SearchReply(models.KindMixto, "", nil)
	assert.Contains(t, got, "esos datos")
}

func TestSearchReplySingleResult(t *testing.T) {
	reports := []models.Report{
		{ID: "r1", Nombre: "Juan Pérez", DNI: "12345678", Telefono: "3794267780", Motivo: "falta de pago"},
	}
	got := SearchReply(models.KindDNI, "12345678", reports)

	assert.Contains(t, got, "REPORTES ENCONTRADOS")
	assert.Contains(t, got, "Búsqueda: DNI: 12345678")
	assert.Contains(t, got, "Total: 1 reporte(s)")
	assert.Contains(t, got, "Nombre: *Juan Pérez*")
	assert.Contains(t, got, "Motivo: falta de pago")
	assert.Equal(t, 1, strings.Count(got, "Reporte #"))
}

func TestSearchReplyTwoResultsOneRule(t *testing.T) {
	reports := []models.Report{
		{ID: "r1", Nombre: "Juan Pérez", DNI: "12345678"},
		{ID: "r2", Nombre: "Juan González", DNI: "20111222"},
	}
	got := SearchReply(models.KindDNI, "12345678", reports)

	assert.Contains(t, got, "Total: 2 reporte(s)")
	assert.Equal(t, 2, strings.Count(got, "Reporte #"))
	// One header rule plus exactly one separator between the two blocks.
	assert.Equal(t, 1, strings.Count(got, strings.Repeat("─", 35)))
	assert.Equal(t, 1, strings.Count(got, "\n"+strings.Repeat("─", 30)+"\n"))
}

func TestSearchReplyNameDisambiguation(t *testing.T) {
	reports := []models.Report{
		{ID: "r1", Nombre: "Juan Pérez"},
		{ID: "r2", Nombre: "Juan Pereyra"},
	}
	got := SearchReply(models.KindNombre, "juan", reports)
	assert.Contains(t, got, "Encontré 2 personas llamadas '*juan*'")
	assert.Contains(t, got, "¿Tenés el DNI para afinar la búsqueda?")

	// A single hit needs no disambiguation.
	got = SearchReply(models.KindNombre, "juan", reports[:1])
	assert.NotContains(t, got, "afinar")
}

func TestReportBlockFieldOrderAndFallback(t *testing.T) {
	// Motivo absent: descripción is the first fallback, observaciones next.
	r := models.Report{ID: "r1", Nombre: "Ana", Descripcion: "incidente", Observaciones: "otros"}
	got := Reports([]models.Report{r}, "Nombre: ana")
	assert.Contains(t, got, "Descripción: incidente")
	assert.NotContains(t, got, "Observaciones")

	r = models.Report{ID: "r1", Nombre: "Ana", Observaciones: "otros"}
	got = Reports([]models.Report{r}, "Nombre: ana")
	assert.Contains(t, got, "Observaciones: otros")
}

func TestFormatDate(t *testing.T) {
	r := models.Report{ID: "r1", Nombre: "Ana", FechaReporte: "2024-03-05T14:30:00Z"}
	got := Reports([]models.Report{r}, "Nombre: ana")
	assert.Contains(t, got, "Fecha: 05/03/2024 14:30")

	// Unparseable dates are shown raw rather than dropped.
	r.FechaReporte = "hace un mes"
	got = Reports([]models.Report{r}, "Nombre: ana")
	assert.Contains(t, got, "Fecha: hace un mes")
}

func TestReplyInactive(t *testing.T) {
	assert.Contains(t, ReplyInactive("SUSPENDIDO"), "*SUSPENDIDO*")
	assert.Contains(t, ReplyInactive(""), "*DESCONOCIDO*")
}
