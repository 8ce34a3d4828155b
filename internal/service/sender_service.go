package service

import (
	"fmt"
	"log"
	"os"
	"time"

	"bigmanbarber/internal/db"
	"bigmanbarber/internal/entities"
	"bigmanbarber/internal/schedule"
	"bigmanbarber/internal/utils"
)

// Notifier delivers customer-facing notifications. All methods are
// best-effort: failures are logged, never propagated into the booking flow.
type Notifier interface {
	AppointmentReceived(ap *db.Appointment)
	AppointmentStatusChanged(ap *db.Appointment, status string)
	OrderPlaced(order *db.Order)
}

type SenderService struct {
	loc *time.Location
}

func NewSenderService(loc *time.Location) *SenderService {
	if loc == nil {
		loc = shopLocation()
	}
	return &SenderService{loc: loc}
}

func shopLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

func (s *SenderService) emailData(ap *db.Appointment, status string) entities.AppointmentEmailData {
	dateFormatted := ap.AppointmentDate
	if d, err := time.ParseInLocation("2006-01-02", ap.AppointmentDate, s.loc); err == nil {
		dateFormatted = d.Format("02/01/2006")
	}
	timeFormatted := ap.AppointmentTime
	if t, err := schedule.ParseTime(ap.AppointmentTime); err == nil {
		timeFormatted = t.String()
	}
	return entities.AppointmentEmailData{
		UserName:      ap.UserName,
		Code:          ap.Code,
		ServiceName:   ap.ServiceName,
		ServicePrice:  fmt.Sprintf("R$ %.2f", ap.ServicePrice),
		BarberName:    ap.BarberName,
		DateFormatted: dateFormatted,
		TimeFormatted: timeFormatted,
		Status:        status,
		CurrentYear:   time.Now().In(s.loc).Year(),
	}
}

// AppointmentReceived notifies the customer and the shop admin that a new
// appointment entered the queue in pending state.
func (s *SenderService) AppointmentReceived(ap *db.Appointment) {
	data := s.emailData(ap, "PENDENTE")

	customerSubject := "Agendamento Recebido - Aguardando Confirmação - BIG MAN Barber"
	customerBody := fmt.Sprintf(
		"Olá %s,\n\n"+
			"Seu agendamento foi recebido e está PENDENTE de confirmação!\n\n"+
			"Detalhes do agendamento:\n"+
			"Código: %s\n"+
			"Serviço: %s - %s\n"+
			"Profissional: %s\n"+
			"Data: %s\n"+
			"Horário: %s\n\n"+
			"Você receberá uma confirmação em breve via WhatsApp e email assim que o agendamento for aprovado pelo nosso time.\n\n"+
			"Atenciosamente,\nEquipe BIG MAN Barber",
		data.UserName, data.Code, data.ServiceName, data.ServicePrice, data.BarberName,
		data.DateFormatted, data.TimeFormatted,
	)

	adminSubject := "Novo Agendamento PENDENTE - BIG MAN Barber"
	adminBody := fmt.Sprintf(
		"Novo agendamento PENDENTE:\n\n"+
			"Cliente: %s\nEmail: %s\nTelefone: %s\n"+
			"Serviço: %s - %s\n"+
			"Profissional: %s\nData: %s\nHorário: %s\n\n"+
			"Status: PENDENTE - Aguardando confirmação do administrador",
		ap.UserName, ap.UserEmail, ap.UserPhone,
		data.ServiceName, data.ServicePrice, data.BarberName,
		data.DateFormatted, data.TimeFormatted,
	)

	go func() {
		if err := SendEmailWithSendGrid(ap.UserEmail, ap.UserName, customerSubject, customerBody, ""); err != nil {
			log.Printf("WARNING (async): customer email for appointment %s failed: %v", ap.Code, err)
		}
		adminEmail := os.Getenv("ADMIN_EMAIL")
		if adminEmail == "" {
			return
		}
		if err := SendEmailWithSendGrid(adminEmail, "Admin", adminSubject, adminBody, ""); err != nil {
			log.Printf("WARNING (async): admin email for appointment %s failed: %v", ap.Code, err)
		}
	}()

	s.sendWhatsApp(ap, fmt.Sprintf(
		"BIG MAN Barber: recebemos seu agendamento %s!\n%s às %s - %s.\nAguarde a confirmação.",
		ap.Code, data.DateFormatted, data.TimeFormatted, data.ServiceName))
}

// AppointmentStatusChanged notifies the customer that an appointment was
// confirmed or cancelled.
func (s *SenderService) AppointmentStatusChanged(ap *db.Appointment, status string) {
	statusPT := statusTranslation(status)
	data := s.emailData(ap, statusPT)

	subject := fmt.Sprintf("Seu agendamento BIG MAN Barber foi %s - Código: %s", statusPT, ap.Code)
	body := fmt.Sprintf(
		"Olá %s,\n\n"+
			"Seu agendamento foi %s.\n\n"+
			"Detalhes do agendamento:\n"+
			"Código: %s\n"+
			"Serviço: %s - %s\n"+
			"Profissional: %s\n"+
			"Data: %s\n"+
			"Horário: %s\n\n"+
			"Atenciosamente,\nEquipe BIG MAN Barber",
		data.UserName, statusPT, data.Code, data.ServiceName, data.ServicePrice,
		data.BarberName, data.DateFormatted, data.TimeFormatted,
	)

	go func() {
		if err := SendEmailWithSendGrid(ap.UserEmail, ap.UserName, subject, body, ""); err != nil {
			log.Printf("WARNING (async): status email for appointment %s failed: %v", ap.Code, err)
		}
	}()

	s.sendWhatsApp(ap, fmt.Sprintf(
		"BIG MAN Barber: seu agendamento %s foi %s!\n%s às %s.",
		ap.Code, statusPT, data.DateFormatted, data.TimeFormatted))
}

// OrderPlaced forwards the order summary to the shop's WhatsApp.
func (s *SenderService) OrderPlaced(order *db.Order) {
	shopPhone := os.Getenv("SHOP_WHATSAPP_NUMBER")
	if shopPhone == "" {
		log.Println("WARNING: SHOP_WHATSAPP_NUMBER is not set. Order notification will not be sent.")
		return
	}

	msg := fmt.Sprintf("Novo pedido %s - %s (%s)\n", order.Code, order.CustomerName, order.CustomerPhone)
	for _, item := range order.Items {
		msg += fmt.Sprintf("- %dx %s (R$ %.2f)\n", item.Quantity, item.ProductName, item.UnitPrice)
	}
	msg += fmt.Sprintf("Total: R$ %.2f\nPagamento: %s\nEntrega: %s, %s - %s/%s",
		order.Total, paymentTranslation(order.PaymentMethod),
		order.Address, order.Neighborhood, order.City, order.State)

	go func() {
		if err := SendWhatsApp(utils.NormalizeBRPhone(shopPhone), msg); err != nil {
			log.Printf("WARNING (async): WhatsApp notification for order %s failed: %v", order.Code, err)
		}
	}()
}

func (s *SenderService) sendWhatsApp(ap *db.Appointment, msg string) {
	to := utils.NormalizeBRPhone(ap.UserPhone)
	if to == "" {
		log.Printf("WARNING: appointment %s has no usable phone number, skipping WhatsApp", ap.Code)
		return
	}
	go func() {
		if err := SendWhatsApp(to, msg); err != nil {
			log.Printf("WARNING (async): WhatsApp message for appointment %s failed: %v", ap.Code, err)
		}
	}()
}

func statusTranslation(status string) string {
	switch status {
	case db.StatusPending:
		return "recebido"
	case db.StatusConfirmed:
		return "CONFIRMADO"
	case db.StatusCompleted:
		return "concluído"
	case db.StatusCancelled:
		return "CANCELADO"
	}
	return status
}

func paymentTranslation(method string) string {
	switch method {
	case "pix":
		return "PIX"
	case "delivery":
		return "na entrega"
	}
	return method
}
