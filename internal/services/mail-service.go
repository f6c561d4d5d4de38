package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const smtpHost = "smtp.gmail.com"
const smtpAddr = smtpHost + ":587"

type MailService struct {
	smtpUser     string
	smtpAppPass  string
	mailFrom     string
	mailFromName string
	appName      string

	// TemplatePath is relative to the working directory.
	TemplatePath string
}

func NewMailService(
	smtpUser string,
	smtpAppPass string,
	mailFrom string,
	mailFromName string,
	appName string,
) *MailService {
	return &MailService{
		smtpUser:     smtpUser,
		smtpAppPass:  smtpAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		appName:      appName,
		TemplatePath: "internal/templates/verify-email.html",
	}
}

func (s *MailService) SendVerifyEmail(to, username, link string) error {
	htmlBody, err := s.renderVerifyTemplate(username, link)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Welcome to %s!", s.appName)
	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) renderVerifyTemplate(username, link string) (string, error) {
	tmpl, err := template.ParseFiles(s.TemplatePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"AppName":  s.appName,
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole exchange, not just the dial
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpAppPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
