package usecase

import "fmt"

// Fixed replies returned instead of a completion
const (
	NoCredentialsReply = "⚠️ Ups, no tengo acceso a mi cerebro. Por favor avisa al equipo de Go Waffles."
	ErrorReply         = "¡Ups! Tuve un pequeño error al pensar mi respuesta. ¿Puedes repetirme tu pregunta? 🧇"
)

const (
	classifierSystemPrompt = "Eres un clasificador. Responde SOLO 'sí' o 'no'."
	classifierUserPrompt   = "¿La siguiente pregunta está relacionada con pedir, comprar, precios, ingredientes, productos o menú de un local de comida? Pregunta: '%s'"

	productsHeader      = "Información de productos relevantes:"
	productsInstruction = "Responde solo con estos productos y precios, con tono amable y juvenil, usando emojis si queda bien."
	noMatchContext      = "No se encontraron productos relacionados con la consulta del usuario. Sugiere visitar %s para ver todo el menú."
	questionLabel       = "Pregunta del usuario: %s"
)

// menuKeywords drive the intent decision when the classifier cannot be used
var menuKeywords = []string{
	"waffle", "helado", "milkshake", "frappe", "limonada", "mini", "banana",
	"plátano", "frutilla", "dulce", "salado", "precio", "cuesta", "tienen",
	"ingredientes",
}

func personaPrompt(name, contactEmail string) string {
	return fmt.Sprintf(`Eres el asistente virtual de %[1]s 🍓.
Responde solo preguntas relacionadas con el negocio usando la información disponible.
Habla con un tono juvenil y cercano, usando emojis cuando quede bien 😄.
No inventes precios, horarios, promociones ni contactos que no estén en los datos que tienes.
Si no sabes algo, responde con amabilidad y sugiere escribir a %[2]s ✉️.
No alteres los enlaces web ni cambies su formato. Respétalos exactamente como aparecen porque necesito que sean clickeables.
Tu meta es sonar natural, claro y buena onda. Evita responder igual ante la misma pregunta para no parecer un bot.`, name, contactEmail)
}
