package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in     string
		want   Command
		wantOK bool
	}{
		{"menu", Command{Menu: true}, true},
		{"AYUDA", Command{Menu: true}, true},
		{" help ", Command{Menu: true}, true},
		{"BUSCAR DNI 12.345.678", Command{Kind: models.KindDNI, Arg: "12.345.678"}, true},
		{"buscar telefono 3794267780", Command{Kind: models.KindTelefono, Arg: "3794267780"}, true},
		{"buscar teléfono 3794267780", Command{Kind: models.KindTelefono, Arg: "3794267780"}, true},
		{"Buscar Nombre Juan Pérez", Command{Kind: models.KindNombre, Arg: "Juan Pérez"}, true},
		{"buscar dni", Command{}, false},
		{"hola", Command{}, false},
		{"12345678", Command{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCommand(tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
		if tc.wantOK {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}
