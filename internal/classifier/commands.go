package classifier

import (
	"regexp"
	"strings"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

// Command is an explicit instruction that bypasses classification, e.g.
// "BUSCAR DNI 12345678" or "menu".
type Command struct {
	Menu bool
	Kind models.MessageKind // dni, telefono or nombre when Menu is false
	Arg  string
}

var (
	menuCommands = map[string]struct{}{"menu": {}, "ayuda": {}, "help": {}}

	searchDNIRe   = regexp.MustCompile(`(?i)^buscar\s+dni\s+(.+)$`)
	searchPhoneRe = regexp.MustCompile(`(?i)^buscar\s+tel[eé]fono\s+(.+)$`)
	searchNameRe  = regexp.MustCompile(`(?i)^buscar\s+nombre\s+(.+)$`)
)

// ParseCommand recognizes the explicit command forms. Anything else returns
// ok == false and should go through Classify.
func ParseCommand(text string) (Command, bool) {
	trimmed := strings.TrimSpace(text)

	if _, ok := menuCommands[strings.ToLower(trimmed)]; ok {
		return Command{Menu: true}, true
	}
	if m := searchDNIRe.FindStringSubmatch(trimmed); m != nil {
		return Command{Kind: models.KindDNI, Arg: strings.TrimSpace(m[1])}, true
	}
	if m := searchPhoneRe.FindStringSubmatch(trimmed); m != nil {
		return Command{Kind: models.KindTelefono, Arg: strings.TrimSpace(m[1])}, true
	}
	if m := searchNameRe.FindStringSubmatch(trimmed); m != nil {
		return Command{Kind: models.KindNombre, Arg: strings.TrimSpace(m[1])}, true
	}
	return Command{}, false
}
