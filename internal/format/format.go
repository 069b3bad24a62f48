// Package format renders the user-facing replies. Every search produces
// exactly one outgoing message: zero results get a reassuring "todo limpio"
// text, one or many results get a count header plus one block per report,
// and ambiguous name searches add a disambiguation question.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

const (
	ReplyAccessDenied = "🔒 *No tenes una cuenta activa en Alojamiento Corrientes*\n\n" +
		"Create una y cuando estes aprobado podrás escribirme 😍\n\n" +
		"🌐 https://www.alojamientocorrientes.com/"

	ReplySystemError = "⚠️ *Error del Sistema*\n\n" +
		"Ocurrió un error al procesar tu mensaje.\n\n" +
		"Por favor, intenta nuevamente en unos momentos.\n\n" +
		"Si el problema persiste, contacta con el administrador."

	ReplyTooLong = "El mensaje es demasiado largo. Por favor, envía un mensaje más corto."

	ReplyMenu = "📋 *MENÚ DE OPCIONES*\n\n" +
		"🔍 *Búsquedas disponibles:*\n\n" +
		"• Escribe un *DNI* directamente\n" +
		"• Escribe un *teléfono* directamente\n" +
		"• Escribe un *nombre* directamente\n\n" +
		"El bot detectará automáticamente el tipo de búsqueda."
)

// ReplyInactive renders the inactive-account reply with the actual status.
func ReplyInactive(status string) string {
	if status == "" {
		status = "DESCONOCIDO"
	}
	return "⚠️ *Cuenta Inactiva*\n\n" +
		"Tu cuenta no está activa en este momento.\n\n" +
		"Estado actual: *" + status + "*\n\n" +
		"Por favor, contacta con el administrador para activar tu cuenta."
}

// SearchReply renders the complete reply for a finished search. kind selects
// the zero-result wording and the disambiguation policy; value is what the
// user searched for.
func SearchReply(kind models.MessageKind, value string, reports []models.Report) string {
	if len(reports) == 0 {
		return noResults(kind, value)
	}

	var b strings.Builder
	if kind == models.KindNombre && len(reports) > 1 {
		fmt.Fprintf(&b, "⚠️ Encontré %d personas llamadas '*%s*'. ¿Tenés el DNI para afinar la búsqueda?\n\n", len(reports), value)
	}
	b.WriteString(Reports(reports, searchLabel(kind, value)))
	return b.String()
}

func searchLabel(kind models.MessageKind, value string) string {
	switch kind {
	case models.KindDNI:
		return "DNI: " + value
	case models.KindTelefono:
		return "Teléfono: " + value
	case models.KindNombre:
		return "Nombre: " + value
	case models.KindMixto:
		return "Búsqueda combinada"
	}
	return value
}

func noResults(kind models.MessageKind, value string) string {
	switch kind {
	case models.KindDNI:
		return fmt.Sprintf("✅ Todo limpio. No encontré reportes con el DNI *%s*.\n\n"+
			"Verificá que no haya errores. Si tenés dudas, consultame de vuelta o probá buscando por nombre o teléfono.", value)
	case models.KindTelefono:
		return fmt.Sprintf("✅ Todo limpio. No encontré reportes con el teléfono *%s*.\n\n"+
			"Verificá que no haya errores. Si tenés dudas, consultame de vuelta o probá buscando por DNI o nombre.", value)
	case models.KindNombre:
		return fmt.Sprintf("✅ Todo limpio. No encontré reportes con el nombre *%s*.\n\n"+
			"Verificá que no haya errores. Si tenés dudas, consultame de vuelta o probá buscando por DNI para una búsqueda más exacta.", value)
	}
	return "✅ Todo limpio. No encontré reportes con esos datos. Probá escribirlo de otra forma."
}

// Reports renders the found-reports body: a header with the search label and
// total, then one block per report separated by a rule.
func Reports(reports []models.Report, label string) string {
	var b strings.Builder
	b.WriteString("⚠️ *REPORTES ENCONTRADOS*\n\n")
	fmt.Fprintf(&b, "🔍 Búsqueda: %s\n", label)
	fmt.Fprintf(&b, "📊 Total: %d reporte(s)\n\n", len(reports))
	b.WriteString(strings.Repeat("─", 35) + "\n\n")

	for i, r := range reports {
		fmt.Fprintf(&b, "📄 *Reporte #%d*\n\n", i+1)
		if r.Nombre != "" {
			fmt.Fprintf(&b, "👤 Nombre: *%s*\n", r.Nombre)
		}
		if r.DNI != "" {
			fmt.Fprintf(&b, "🆔 DNI: %s\n", r.DNI)
		}
		if r.Telefono != "" {
			fmt.Fprintf(&b, "📱 Teléfono: %s\n", r.Telefono)
		}
		if detail := reportDetail(r); detail != "" {
			b.WriteString(detail)
		}
		if r.FechaReporte != "" {
			fmt.Fprintf(&b, "📅 Fecha: %s\n", formatDate(r.FechaReporte))
		}
		if i < len(reports)-1 {
			b.WriteString("\n" + strings.Repeat("─", 30) + "\n\n")
		}
	}
	return b.String()
}

// reportDetail picks the first available narrative field, in fixed order.
func reportDetail(r models.Report) string {
	switch {
	case r.Motivo != "":
		return fmt.Sprintf("📝 Motivo: %s\n", r.Motivo)
	case r.Descripcion != "":
		return fmt.Sprintf("📝 Descripción: %s\n", r.Descripcion)
	case r.Observaciones != "":
		return fmt.Sprintf("📝 Observaciones: %s\n", r.Observaciones)
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatDate renders a stored ISO timestamp as dd/mm/yyyy HH:MM, falling
// back to the raw string when it cannot be parsed.
func formatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return raw
}
