package notification

import (
	"context"
	"fmt"
	"time"

	"medibook/config"
	"medibook/models"
	"medibook/services/tasks"
	"medibook/utils"

	"github.com/hibiken/asynq"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// NotificationService defines methods for patient-facing booking
// notifications.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, appointment models.Appointment) error
	SendAppointmentReminder(ctx context.Context, payload models.ReminderPayload) error
	ScheduleReminder(appointment models.Appointment) error
}

// taskEnqueuer is the slice of *asynq.Client the service needs; narrowed so
// scheduling is testable without a live queue.
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultNotificationService delivers email via SendGrid and schedules
// reminders on the asynq queue.
type DefaultNotificationService struct {
	client   *sendgrid.Client
	enqueuer taskEnqueuer
	logger   *zap.Logger
	now      func() time.Time
}

func NewDefaultNotificationService() *DefaultNotificationService {
	enqueuer := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	var client *sendgrid.Client
	if config.AppConfig.SendGridKey != "" {
		client = sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	}
	return &DefaultNotificationService{
		client:   client,
		enqueuer: enqueuer,
		logger:   utils.GetLogger(),
		now:      time.Now,
	}
}

// SendBookingConfirmation emails the patient a summary of the confirmed
// appointment.
func (n *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, appointment models.Appointment) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Your %s with %s is confirmed for %s at %s.",
		appointment.Type, appointment.DoctorName, appointment.Date, appointment.Time,
	)
	return n.sendEmail(ctx, appointment.PatientName, appointment.PatientEmail, subject, body)
}

// SendAppointmentReminder emails the patient a reminder; invoked by the
// asynq worker when the scheduled task fires.
func (n *DefaultNotificationService) SendAppointmentReminder(ctx context.Context, payload models.ReminderPayload) error {
	return n.sendEmail(ctx, "", payload.Email, payload.Title, payload.Body)
}

// ScheduleReminder enqueues a reminder task to fire 24 hours before the
// appointment. Appointments less than 24 hours away get no reminder.
func (n *DefaultNotificationService) ScheduleReminder(appointment models.Appointment) error {
	if appointment.PatientEmail == "" {
		return nil
	}
	startAt, err := time.ParseInLocation("2006-01-02 15:04", appointment.Date+" "+appointment.Time, time.Local)
	if err != nil {
		return fmt.Errorf("failed to parse appointment time: %w", err)
	}
	fireAt := startAt.Add(-24 * time.Hour)
	if fireAt.Before(n.now()) {
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Email:         appointment.PatientEmail,
		Title:         "Appointment reminder",
		Body: fmt.Sprintf("Reminder: your %s with %s is tomorrow, %s at %s.",
			appointment.Type, appointment.DoctorName, appointment.Date, appointment.Time),
		FireDate: fireAt.Format(time.RFC3339),
	}

	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := n.enqueuer.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	n.logger.Info("scheduled appointment reminder",
		zap.String("appointmentID", appointment.ID), zap.Time("fireAt", fireAt))
	return nil
}

func (n *DefaultNotificationService) sendEmail(ctx context.Context, toName, toEmail, subject, body string) error {
	if toEmail == "" {
		return nil
	}
	if n.client == nil {
		n.logger.Debug("sendgrid not configured, skipping email", zap.String("subject", subject))
		return nil
	}

	from := mail.NewEmail("MediBook", config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}
