package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/pkg/config"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

var (
	_ auth.Notifier = (*SMTPNotifier)(nil)
	_ auth.Notifier = (*LogNotifier)(nil)
)

var (
	recoveryTmpl = template.Must(template.New("recovery").Parse(
		`<p>Recibimos un pedido para restablecer su contraseña.</p>
<p><a href="{{.Link}}">Definir nueva contraseña</a></p>
<p>El enlace vence el {{.ExpiresAt}}. Si no fue usted, ignore este mensaje.</p>`))
	invitationTmpl = template.Must(template.New("invitation").Parse(
		`<p>Hola {{.Name}},</p>
<p>Fue invitado a Gestor RH. Active su cuenta definiendo una contraseña:</p>
<p><a href="{{.Link}}">Activar cuenta</a></p>
<p>La invitación vence el {{.ExpiresAt}}.</p>`))
)

// Links arma las URLs públicas que llevan el token.
type Links struct {
	BaseURL string
}

// Recovery URL de restablecimiento.
func (l Links) Recovery(token string) string {
	return l.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
}

// Activation URL de activación.
func (l Links) Activation(token string) string {
	return l.BaseURL + "/activate?token=" + url.QueryEscape(token)
}

// Sender abstrae el envío para poder probar sin servidor SMTP. *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier entrega los enlaces por correo.
type SMTPNotifier struct {
	sender Sender
	from   string
	links  Links
}

// NewSMTPNotifier construye el notificador sobre un dialer gomail.
func NewSMTPNotifier(cfg config.SMTPConfig, links Links) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, links)
}

// NewSMTPNotifierWithSender permite inyectar el Sender.
func NewSMTPNotifierWithSender(sender Sender, from string, links Links) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, links: links}
}

// SendRecovery envía el enlace de recuperación.
func (n *SMTPNotifier) SendRecovery(ctx context.Context, msg auth.RecoveryNotice) error {
	body, err := render(recoveryTmpl, map[string]string{
		"Link":      n.links.Recovery(msg.Token),
		"ExpiresAt": msg.ExpiresAt.Format(time.RFC1123),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, msg.Email, "Recuperación de contraseña", body)
}

// SendInvitation envía la invitación.
func (n *SMTPNotifier) SendInvitation(ctx context.Context, msg auth.InvitationNotice) error {
	name := msg.Name
	if name == "" {
		name = msg.Email
	}
	body, err := render(invitationTmpl, map[string]string{
		"Name":      name,
		"Link":      n.links.Activation(msg.Token),
		"ExpiresAt": msg.ExpiresAt.Format(time.RFC1123),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, msg.Email, "Invitación a Gestor RH", body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func render(t *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("plantilla %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// LogNotifier sin SMTP: deja el enlace en el log (desarrollo y bootstrap).
type LogNotifier struct {
	log   *logger.Logger
	links Links
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger, links Links) *LogNotifier {
	return &LogNotifier{log: log.Named("mail"), links: links}
}

// SendRecovery registra el enlace de recuperación.
func (n *LogNotifier) SendRecovery(_ context.Context, msg auth.RecoveryNotice) error {
	n.log.Info().Str("to", msg.Email).Str("link", n.links.Recovery(msg.Token)).Time("expires_at", msg.ExpiresAt).Msg("enlace de recuperación")
	return nil
}

// SendInvitation registra el enlace de activación.
func (n *LogNotifier) SendInvitation(_ context.Context, msg auth.InvitationNotice) error {
	n.log.Info().Str("to", msg.Email).Str("link", n.links.Activation(msg.Token)).Time("expires_at", msg.ExpiresAt).Msg("enlace de activación")
	return nil
}
