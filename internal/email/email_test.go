package email

import (
	"strings"
	"testing"
)

func TestNewSMTPSender(t *testing.T) {
	config := Config{
		Host:     "smtp.platefeed.example",
		Port:     587,
		Username: "mailer",
		Password: "password",
		From:     "noreply@platefeed.example",
	}

	sender := NewSMTPSender(config)
	if sender == nil {
		t.Fatal("expected sender to be created, got nil")
	}
	if sender.config.Host != config.Host {
		t.Errorf("host = %s, want %s", sender.config.Host, config.Host)
	}
	if sender.config.Port != config.Port {
		t.Errorf("port = %d, want %d", sender.config.Port, config.Port)
	}
}

func TestBuildMessage(t *testing.T) {
	sender := &SMTPSender{
		config: Config{
			From: "noreply@platefeed.example",
		},
	}

	tests := []struct {
		name        string
		to          []string
		subject     string
		body        string
		wantTo      string
		wantSubject string
	}{
		{
			name:        "single recipient",
			to:          []string{"masha@example.com"},
			subject:     "Your password was changed",
			body:        "Your account password was just changed.",
			wantTo:      "masha@example.com",
			wantSubject: "Your password was changed",
		},
		{
			name:        "multiple recipients",
			to:          []string{"masha@example.com", "petya@example.com"},
			subject:     "Your password was changed",
			body:        "Your account password was just changed.",
			wantTo:      "masha@example.com, petya@example.com",
			wantSubject: "Your password was changed",
		},
		{
			name:        "html body",
			to:          []string{"masha@example.com"},
			subject:     "Welcome",
			body:        "<h1>Welcome</h1><p>Your account is ready.</p>",
			wantTo:      "masha@example.com",
			wantSubject: "Welcome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := string(sender.buildMessage(tt.to, tt.subject, tt.body))

			if !strings.Contains(message, "From: noreply@platefeed.example") {
				t.Errorf("missing From header in message: %s", message)
			}
			if !strings.Contains(message, "To: "+tt.wantTo) {
				t.Errorf("To header %q not in message: %s", tt.wantTo, message)
			}
			if !strings.Contains(message, "Subject: "+tt.wantSubject) {
				t.Errorf("Subject header %q not in message: %s", tt.wantSubject, message)
			}
			if !strings.Contains(message, tt.body) {
				t.Errorf("body %q not in message: %s", tt.body, message)
			}
			if !strings.Contains(message, "MIME-Version: 1.0") {
				t.Error("missing MIME-Version header")
			}
			if !strings.Contains(message, "Content-Type: text/html; charset=UTF-8") {
				t.Error("missing Content-Type header")
			}
		})
	}
}

func TestSend_NoRecipients(t *testing.T) {
	sender := NewSMTPSender(Config{
		Host: "smtp.platefeed.example",
		Port: 587,
		From: "noreply@platefeed.example",
	})

	err := sender.Send(nil, "Your password was changed", "body")
	if err == nil {
		t.Fatal("expected error for empty recipient list, got nil")
	}
	if !strings.Contains(err.Error(), "no recipients") {
		t.Errorf("error = %v, want mention of missing recipients", err)
	}
}

func TestTLSPortSelection(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantTLS bool
	}{
		{name: "submission port", port: 587, wantTLS: true},
		{name: "smtps port", port: 465, wantTLS: true},
		{name: "legacy port 25", port: 25, wantTLS: false},
		{name: "nonstandard port", port: 2525, wantTLS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewSMTPSender(Config{
				Host: "smtp.platefeed.example",
				Port: tt.port,
				From: "noreply@platefeed.example",
			})

			gotTLS := sender.config.Port == 587 || sender.config.Port == 465
			if gotTLS != tt.wantTLS {
				t.Errorf("port %d: tls = %v, want %v", tt.port, gotTLS, tt.wantTLS)
			}
		})
	}
}
