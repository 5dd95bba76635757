package helpers

import (
	"fmt"
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link that opens a chat with number and
// the message pre-filled. Non-digits in number (plus sign, spaces) are
// dropped; wa.me wants the bare international number.
func WhatsAppLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

// ContactMessage composes the templated message the contact form opens
// WhatsApp with.
func ContactMessage(name, email, subject, body string) string {
	var b strings.Builder
	b.WriteString("Olá! Gostaria de entrar em contacto.\n")
	fmt.Fprintf(&b, "Nome: %s\n", name)
	fmt.Fprintf(&b, "Email: %s\n", email)
	if subject != "" {
		fmt.Fprintf(&b, "Assunto: %s\n", subject)
	}
	b.WriteString(body)
	return b.String()
}

// InscriptionMessage composes the templated message the enrollment form
// opens WhatsApp with after a successful submission.
func InscriptionMessage(name, course, schedule string) string {
	var b strings.Builder
	b.WriteString("Olá! Acabei de submeter a minha pré-inscrição.\n")
	fmt.Fprintf(&b, "Nome: %s\n", name)
	fmt.Fprintf(&b, "Curso: %s\n", course)
	if schedule != "" {
		fmt.Fprintf(&b, "Horário preferido: %s\n", schedule)
	}
	return b.String()
}
