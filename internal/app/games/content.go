package games

// Contenido embebido de los juegos. Listas cortas a propósito; el valor
// está en la mecánica, no en el catálogo.

var truths = []string{
	"¿Cuál es tu mayor miedo?",
	"¿Qué es lo más vergonzoso que hiciste en un trabajo?",
	"¿Cuál fue la peor entrevista de tu vida?",
	"¿Qué es lo más infantil que seguís haciendo?",
	"¿Cuál es tu placer culposo?",
	"¿Cuál fue la última mentira que dijiste?",
}

var dares = []string{
	"Hacé tu mejor imitación de otro jugador",
	"Escribí un verso sobre alguien de la sala",
	"Contá un chiste malo ahora mismo",
	"Escribí tu próximo mensaje al revés",
	"Confesá tu peor hábito de programación",
	"Describí tu setup con lujo de detalle exagerado",
}

type word struct {
	answer string
	hints  []string
}

var words = []word{
	{"python", []string{"Es un lenguaje de programación", "Lleva nombre de serpiente", "Usa indentación para los bloques"}},
	{"coffee", []string{"Bebida popular", "Tiene cafeína", "Muchos la toman a la mañana"}},
	{"pizza", []string{"Comida popular", "Suele ser redonda", "Lleva queso y salsa de tomate"}},
	{"computer", []string{"Dispositivo electrónico", "Procesa datos", "Tiene teclado y pantalla"}},
	{"elephant", []string{"Animal grande", "Tiene trompa larga", "Vive en África y Asia"}},
	{"umbrella", []string{"Se usa los días de lluvia", "Te mantiene seco", "Se abre y se cierra"}},
	{"bicycle", []string{"Tiene dos ruedas", "Transporte a propulsión humana", "Hay que pedalear"}},
	{"rainbow", []string{"Aparece después de la lluvia", "Tiene muchos colores", "Forma un arco en el cielo"}},
}

type matchQuestion struct {
	question string
	options  []string
}

var matchQuestions = []matchQuestion{
	{"¿Café o té?", []string{"café", "té"}},
	{"¿Trabajar de madrugada o de mañana temprano?", []string{"madrugada", "mañana"}},
	{"¿Tabs o espacios?", []string{"tabs", "espacios"}},
	{"¿Playa o montaña?", []string{"playa", "montaña"}},
	{"¿Backend o frontend?", []string{"backend", "frontend"}},
	{"¿Libro o película?", []string{"libro", "película"}},
	{"¿Pizza con ananá: sí o no?", []string{"sí", "no"}},
}
