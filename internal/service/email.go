package service

import (
	"context"
	"fmt"
	"time"

	"perpusum-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// dateID formats a date the way the member-facing emails show it.
func dateID(t time.Time) string {
	return t.Format("02-01-2006")
}

type emailService struct {
	apiKey     string
	senderName string
	senderAddr string
}

func NewEmailService(apiKey, senderName, senderAddr string) EmailService {
	return &emailService{
		apiKey:     apiKey,
		senderName: senderName,
		senderAddr: senderAddr,
	}
}

func (s *emailService) send(ctx context.Context, toName, toAddr, subject, plainText string) error {
	from := mail.NewEmail(s.senderName, s.senderAddr)
	to := mail.NewEmail(toName, toAddr)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, m *domain.Member) error {
	subject := "Konfirmasi Pendaftaran Keanggotaan - Perpustakaan UM"
	body := fmt.Sprintf(`Halo %s,

Pendaftaran keanggotaan Anda pada tanggal %s telah kami terima dengan nomor anggota %s.

Pendaftaran Anda sedang menunggu persetujuan admin. Kami akan mengirimkan email pemberitahuan setelah pendaftaran diproses.

Salam,
Perpustakaan UM`, m.Name, dateID(m.RegistrationDate), m.MemberNumber)
	return s.send(ctx, m.Name, m.Email, subject, body)
}

func (s *emailService) SendApproval(ctx context.Context, m *domain.Member) error {
	subject := "Pendaftaran Anda Telah Disetujui - Perpustakaan UM"
	expiry := ""
	if m.MembershipExpiryDate != nil {
		expiry = fmt.Sprintf("\nMasa keanggotaan Anda berlaku sampai %s.\n", dateID(*m.MembershipExpiryDate))
	}
	body := fmt.Sprintf(`Halo %s,

Selamat! Pendaftaran keanggotaan Anda (NIM/NIK: %s, nomor anggota: %s) telah disetujui.
%s
Salam,
Perpustakaan UM`, m.Name, m.NIM, m.MemberNumber, expiry)
	return s.send(ctx, m.Name, m.Email, subject, body)
}

func (s *emailService) SendRejection(ctx context.Context, m *domain.Member, reason string) error {
	subject := "Pemberitahuan Status Pendaftaran - Perpustakaan UM"
	body := fmt.Sprintf(`Halo %s,

Mohon maaf, pendaftaran keanggotaan Anda belum dapat kami setujui.`, m.Name)
	if reason != "" {
		body += fmt.Sprintf("\n\nAlasan: %s", reason)
	}
	body += "\n\nSalam,\nPerpustakaan UM"
	return s.send(ctx, m.Name, m.Email, subject, body)
}

func (s *emailService) SendRenewalApproval(ctx context.Context, m *domain.Member, newExpiry time.Time) error {
	subject := "Perpanjangan Keanggotaan Disetujui - Perpustakaan UM"
	body := fmt.Sprintf(`Halo %s,

Pengajuan perpanjangan keanggotaan Anda telah disetujui. Masa keanggotaan Anda sekarang berlaku sampai %s.

Salam,
Perpustakaan UM`, m.Name, dateID(newExpiry))
	return s.send(ctx, m.Name, m.Email, subject, body)
}

func (s *emailService) SendRenewalRejection(ctx context.Context, m *domain.Member, reason string) error {
	subject := "Pemberitahuan Perpanjangan Keanggotaan - Perpustakaan UM"
	body := fmt.Sprintf(`Halo %s,

Mohon maaf, pengajuan perpanjangan keanggotaan Anda belum dapat kami setujui.`, m.Name)
	if reason != "" {
		body += fmt.Sprintf("\n\nAlasan: %s", reason)
	}
	body += "\n\nSalam,\nPerpustakaan UM"
	return s.send(ctx, m.Name, m.Email, subject, body)
}

func (s *emailService) SendExpiryReminder(ctx context.Context, m *domain.Member, daysLeft int) error {
	subject := "Pengingat Masa Keanggotaan - Perpustakaan UM"
	var status string
	switch {
	case daysLeft > 0:
		status = fmt.Sprintf("akan berakhir dalam %d hari", daysLeft)
	case daysLeft == 0:
		status = "berakhir hari ini"
	default:
		status = fmt.Sprintf("sudah berakhir %d hari yang lalu", -daysLeft)
	}
	body := fmt.Sprintf(`Halo %s,

Masa keanggotaan Anda (nomor anggota: %s) %s. Silakan ajukan perpanjangan melalui halaman perpanjangan keanggotaan setelah masa berlaku habis.

Salam,
Perpustakaan UM`, m.Name, m.MemberNumber, status)
	return s.send(ctx, m.Name, m.Email, subject, body)
}
