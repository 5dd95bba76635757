package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names used by EmailJob.Template.
const (
	Invitation             = "invitation"
	EnrollmentConfirmation = "enrollment_confirmation"
	PaymentReceipt         = "payment_receipt"
)

var bodies = map[string]*template.Template{
	Invitation: template.Must(template.New(Invitation).Parse(`
<p>Olá {{.FullName}},</p>
<p>O seu email foi autorizado para criar conta no portal do {{.Institution}}.</p>
{{if .Course}}<p>Curso atribuído: <strong>{{.Course}}</strong></p>{{end}}
<p><a href="{{.SignupURL}}">Criar a minha conta</a></p>
`)),
	EnrollmentConfirmation: template.Must(template.New(EnrollmentConfirmation).Parse(`
<p>Olá {{.FullName}},</p>
<p>A sua matrícula no curso <strong>{{.Course}}</strong> está activa.</p>
<p>Bem-vindo ao {{.Institution}}!</p>
`)),
	PaymentReceipt: template.Must(template.New(PaymentReceipt).Parse(`
<p>Olá {{.FullName}},</p>
<p>Recebemos o pagamento de <strong>{{.Amount}}</strong> ({{.Description}}).</p>
<p>Obrigado,<br>{{.Institution}}</p>
`)),
}

var subjects = map[string]string{
	Invitation:             "O seu acesso ao portal foi autorizado",
	EnrollmentConfirmation: "Matrícula confirmada",
	PaymentReceipt:         "Recibo de pagamento",
}

// Render returns the subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}
