package auth

import (
	"context"

	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

const (
	verificationSubject = "Registro recibido"
	verificationBody    = "Tu cuenta fue creada y está pendiente de verificación. " +
		"Te avisaremos cuando puedas iniciar sesión."
)

// MailNotifier avisa por correo al username (un email en la práctica) que la cuenta quedó pendiente.
type MailNotifier struct {
	mailer Mailer
}

// NewMailNotifier construye el notificador sobre un Mailer.
func NewMailNotifier(m Mailer) *MailNotifier {
	return &MailNotifier{mailer: m}
}

func (n *MailNotifier) NotifyRegistered(ctx context.Context, acc entity.Account) error {
	return n.mailer.Send(ctx, acc.Username, verificationSubject, verificationBody)
}
