// Package classifier interprets inbound WhatsApp text as a search intent.
//
// The rules form an ordered decision list: greetings short-circuit
// everything, over-long inputs are rejected unless they are a pure long
// number, and in mixed input the numeric evidence always outranks the
// textual one. The DNI window (7-9 digits) is checked before the phone
// window (10+).
package classifier

import (
	"strings"

	"github.com/alojacorrientes/guardia-bot/internal/models"
	"github.com/alojacorrientes/guardia-bot/internal/textnorm"
)

// Guidance texts returned with error classifications.
const (
	ReplyNotUnderstood = "No pude entender tu mensaje. Escribí un Nombre, DNI o Teléfono."
	ReplyNumberShort   = "El número es muy corto, por favor revisalo."
	ReplyNameShort     = "El nombre es muy corto. Escribí al menos 3 letras."
	ReplyTooManyWords  = "El mensaje es muy largo. Enviá solo el nombre, DNI o teléfono a consultar."
)

// ReplyGreeting is sent back whenever a greeting is detected.
const ReplyGreeting = "¡Hola! 👋 Soy el Asistente de Seguridad de Alojamiento Corrientes.\n\n" +
	"Antes de entregar la llave 🔑, consultá si tu futuro huésped tiene reportes por falta de pago o incidentes en nuestra comunidad.\n\n" +
	"👉 Escribí acá abajo el NOMBRE, DNI o TELÉFONO del inquilino para verificarlo.\n\n\n\n" +
	"💡 Tip: Si tenés el DNI, la búsqueda es más exacta. Si solo tenés el nombre, te mostraré las posibles coincidencias."

var greetings = []string{
	"hola", "holi", "holis", "hola como estas",
	"buen dia", "buenos dias", "buenas tardes", "buenas noches",
	"gracias", "gracias por todo", "muchas gracias",
	"chau", "chao", "adios", "hasta luego",
}

// Word-count guard: longer inputs are rejected unless the digit projection
// says they are really a formatted long number.
const (
	maxWords       = 5
	minLongDigits  = 7
	minDNIDigits   = 7
	maxDNIDigits   = 9
	minPhoneDigits = 10
	minNumber      = 6
	minNameLen     = 3
)

// RuleClassifier classifies messages with the fixed decision list above.
// It is stateless and safe for concurrent use.
type RuleClassifier struct{}

func New() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify interprets text and returns its classification. It never fails:
// unintelligible input yields KindError with a guidance reply.
func (c *RuleClassifier) Classify(text string) models.Classification {
	cleaned := textnorm.Normalize(text)
	if cleaned == "" {
		return errorResult(ReplyNotUnderstood)
	}

	if isGreeting(cleaned) {
		return models.Classification{Kind: models.KindSaludo, Reply: ReplyGreeting}
	}

	digits := textnorm.Digits(cleaned)
	letters := textnorm.Letters(cleaned)

	if len(strings.Fields(cleaned)) > maxWords && len(digits) < minLongDigits {
		return errorResult(ReplyTooManyWords)
	}

	switch {
	case digits != "" && letters == "":
		return classifyNumber(digits)
	case letters != "" && digits == "":
		return classifyName(letters)
	case letters != "" && digits != "":
		return classifyMixed(digits, letters)
	}
	return errorResult(ReplyNotUnderstood)
}

// classifyNumber handles pure-digit input. Exactly 6 digits deliberately
// falls through to the generic error, and 9 digits counts as DNI rather
// than phone; both boundaries match the production behavior.
func classifyNumber(digits string) models.Classification {
	n := len(digits)
	switch {
	case n < minNumber:
		return errorResult(ReplyNumberShort)
	case n >= minDNIDigits && n <= maxDNIDigits:
		return models.Classification{Kind: models.KindDNI, Value: digits}
	case n >= minPhoneDigits:
		return models.Classification{Kind: models.KindTelefono, Value: digits}
	}
	return errorResult(ReplyNotUnderstood)
}

func classifyName(letters string) models.Classification {
	final := strings.Join(textnorm.NameTokens(letters), " ")
	if len(final) < minNameLen {
		return errorResult(ReplyNameShort)
	}
	return models.Classification{Kind: models.KindNombre, Value: final}
}

func classifyMixed(digits, letters string) models.Classification {
	n := len(digits)
	switch {
	case n >= minDNIDigits && n <= maxDNIDigits:
		return models.Classification{Kind: models.KindDNI, Value: digits}
	case n >= minPhoneDigits:
		return models.Classification{Kind: models.KindTelefono, Value: digits}
	}
	// The number is unusable; fall back to whatever name is left.
	final := strings.Join(textnorm.NameTokens(letters), " ")
	if len(final) >= minNameLen {
		return models.Classification{Kind: models.KindNombre, Value: final}
	}
	return errorResult(ReplyNotUnderstood)
}

func isGreeting(cleaned string) bool {
	for _, g := range greetings {
		if cleaned == g {
			return true
		}
	}
	for _, g := range greetings {
		if strings.HasPrefix(cleaned, g) && len(cleaned) <= len(g)+10 {
			return true
		}
	}
	return false
}

func errorResult(reply string) models.Classification {
	return models.Classification{Kind: models.KindError, Reply: reply}
}
