// Package business holds the static fact sheet the assistant answers from.
package business

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"
	"unicode/utf8"

	"github.com/gowaffles/assistant/internal/domain"
)

// DefaultFacts is the fact sheet used when the config file provides none
func DefaultFacts() domain.BusinessFactSheet {
	return domain.BusinessFactSheet{
		{Key: "ubicacion", Text: "Estamos ubicados en Avenida Gabriel González Videla 3170, La Serena. También puedes encontrarnos en google maps como 'Go Waffles'."},
		{Key: "horarios", Text: "De lunes a viernes entre las 16:00 y 21:00. Sábado y domingo entre 15:30 y 21:30."},
		{Key: "promociones", Text: "Tenemos un 15% de descuento usando el cupón PRIMERACOMPRA en gowaffles.cl"},
		{Key: "canales_venta", Text: "Puedes comprar en tu delivery app favorita (UberEats, PedidosYa o Rappi) o a través de nuestra página web gowaffles.cl"},
		{Key: "carta", Text: "Encuentra todos nuestros productos en gowaffles.cl/pedir"},
		{Key: "trabajo", Text: "Si quieres trabajar con nosotros, puedes escribir a contacto@gowaffles.cl o rellenar el formulario en gowaffles.cl/nosotros"},
		{Key: "problemas", Text: "Si tuviste algún inconveniente con tu pedido escríbenos a contacto@gowaffles.cl"},
		{Key: "ejecutivo", Text: "Si necesitas hablar con un encargado del local, comunícate al https://wa.me/56953717707"},
		{Key: "redes_sociales", Text: "Encuentranos en instagram o tiktok como @gowaffles.cl"},
		{Key: "categorías", Text: "Tenemos waffles dulces, salados y personalizados. También tenemos milkshakes, frappes, limonadas, Mini Go, helados y bebidas"},
		{Key: "zona_delivery", Text: "Cada delivery app tiene su propio radio de despacho. En gowaffles.cl/local puedes ver la cobertura de despacho para las ventas de nuestro sitio web"},
	}
}

// Profile is the business identity plus its fact sheet and local clock
type Profile struct {
	Name         string
	City         string
	MenuURL      string
	ContactEmail string
	Facts        domain.BusinessFactSheet
	Location     *time.Location
}

// NewProfile resolves the timezone and falls back to DefaultFacts when facts is empty
func NewProfile(name, city, timezone, menuURL, contactEmail string, facts domain.BusinessFactSheet) (*Profile, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if len(facts) == 0 {
		facts = DefaultFacts()
	}
	return &Profile{
		Name:         name,
		City:         city,
		MenuURL:      menuURL,
		ContactEmail: contactEmail,
		Facts:        facts,
		Location:     loc,
	}, nil
}

// FactsContext renders the fact sheet as a reference block for the model
func (p *Profile) FactsContext() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Aquí tienes información de referencia sobre %s que puedes usar para responder:\n", p.Name)
	for _, fact := range p.Facts {
		fmt.Fprintf(&b, "- %s: %s\n", capitalize(fact.Key), fact.Text)
	}
	b.WriteString("\nUsa esta información solo si aplica a la pregunta del usuario.\n")
	return b.String()
}

// LocalTime formats now as HH:MM in the business timezone
func (p *Profile) LocalTime(now time.Time) string {
	return now.In(p.Location).Format("15:04")
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
