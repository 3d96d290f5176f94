package mail

import (
	"fmt"
	"html"
	"time"
)

// AcceptanceSubject is the subject line of the acceptance notification.
const AcceptanceSubject = "¡Has sido seleccionado para continuar el proceso!"

// AcceptanceHTML renders the acceptance notification. portalURL must be an
// absolute URL to the candidate panel.
func AcceptanceHTML(name, portalURL string) string {
	if name == "" {
		name = "Postulante"
	}
	name = html.EscapeString(name)

	return fmt.Sprintf(`<div style="display:none;max-height:0;overflow:hidden;opacity:0;">
  Accede a tu panel para ver los siguientes pasos del proceso de selección.
</div>
<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="background:#F6F7FB;">
  <tr>
    <td align="center" style="padding:24px;">
      <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="max-width:600px;background:#ffffff;border-radius:12px;overflow:hidden;">
        <tr>
          <td style="padding:28px 28px 8px 28px;">
            <h1 style="margin:0;font:800 22px Arial,Helvetica,sans-serif;color:#1E2A6B;">¡Hola %s!</h1>
            <p style="margin:0;font:400 14px Arial,Helvetica,sans-serif;color:#2B2B2B;">
              ¡Buenas noticias! Fuiste <strong style="color:#1E2A6B;">aceptado</strong> para continuar con el proceso de selección.
            </p>
          </td>
        </tr>
        <tr>
          <td style="padding:8px 28px;">
            <p style="margin:0 0 12px;font:400 14px Arial,Helvetica,sans-serif;color:#2B2B2B;">Desde tu panel podrás ver:</p>
            <ul style="margin:0 0 16px 18px;font:400 14px Arial,Helvetica,sans-serif;color:#2B2B2B;">
              <li>El estado actual de tu postulación</li>
              <li>Próximos pasos y fechas</li>
              <li>Documentación o exámenes requeridos</li>
            </ul>
            <table role="presentation" cellspacing="0" cellpadding="0" border="0" style="margin:20px 0 8px;">
              <tr>
                <td align="center">
                  <a href="%s" target="_blank"
                     style="background:#E61E5C;border-radius:10px;display:inline-block;padding:12px 22px;font:700 14px Arial,Helvetica,sans-serif;color:#ffffff;text-decoration:none;">
                    Ver mi proceso
                  </a>
                </td>
              </tr>
            </table>
          </td>
        </tr>
        <tr>
          <td style="padding:16px 28px 24px;">
            <p style="margin:0;font:400 12px Arial,Helvetica,sans-serif;color:#5B6472;">
              Este es un correo automático, por favor no respondas a este mensaje.
            </p>
          </td>
        </tr>
        <tr>
          <td style="background:#F1F3F8;padding:14px 24px;text-align:center;">
            <p style="margin:6px 0;font:400 11px Arial,Helvetica,sans-serif;color:#5B6472;">
              © %d Multitalent. Todos los derechos reservados.
            </p>
          </td>
        </tr>
      </table>
    </td>
  </tr>
</table>`, name, portalURL, time.Now().UTC().Year())
}
