package helpers

import (
	"net/url"
	"strings"
	"testing"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+351 912000000", "Olá mundo & co")
	if !strings.HasPrefix(link, "https://wa.me/351912000000?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if got := u.Query().Get("text"); got != "Olá mundo & co" {
		t.Errorf("text round-trip = %q", got)
	}
}

func TestContactMessageIncludesFields(t *testing.T) {
	msg := ContactMessage("Ana", "ana@example.com", "Horários", "Quando abrem as aulas?")
	for _, want := range []string{"Ana", "ana@example.com", "Horários", "Quando abrem as aulas?"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestInscriptionMessageOmitsEmptySchedule(t *testing.T) {
	msg := InscriptionMessage("Rui", "Electrotecnia", "")
	if strings.Contains(msg, "Horário") {
		t.Error("schedule line should be omitted when empty")
	}
}
