package models

// Report is one flagged-guest document from the report store. All fields
// except ID are optional; the formatter renders only what is present.
type Report struct {
	ID            string `json:"id"`
	Nombre        string `json:"nombre,omitempty"`
	DNI           string `json:"dni,omitempty"`
	Telefono      string `json:"telefono,omitempty"`
	Motivo        string `json:"motivo,omitempty"`
	Descripcion   string `json:"descripcion,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`
	FechaReporte  string `json:"fechaReporte,omitempty"`
}

// User is a registered bot account from the user directory. Identity is the
// last 10 digits of Telefono; anything but Status == "ACTIVO" is inactive.
type User struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre,omitempty"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono"`
	Status   string `json:"status"`
}

// StatusActive is the only account status allowed to run searches.
const StatusActive = "ACTIVO"

// MessageKind is the interpreted intent of an inbound message.
type MessageKind string

const (
	KindSaludo   MessageKind = "saludo"
	KindDNI      MessageKind = "dni"
	KindTelefono MessageKind = "telefono"
	KindNombre   MessageKind = "nombre"
	KindMixto    MessageKind = "mixto"
	KindError    MessageKind = "error"
	KindNone     MessageKind = ""
)

// Classification is the immutable result of interpreting one message.
//
// Value carries the digit string for dni/telefono and the filtered word
// string for nombre. For mixto, Numbers and Words carry both halves and
// NumberKind says how the numeric half should be searched. Reply, when
// non-empty, is a user-facing text (greeting or guidance) that short-circuits
// any search.
type Classification struct {
	Kind       MessageKind
	Value      string
	Numbers    string
	Words      string
	NumberKind MessageKind
	Reply      string
}
