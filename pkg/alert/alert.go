// Package alert sends notifications when an analysis run produces audit
// findings.
package alert

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/soundprediction/relgraph/pkg/config"
	"github.com/soundprediction/relgraph/pkg/types"
)

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg config.AlertConfig
}

// NewEmailAlerter creates a new email alerter
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{
		cfg: cfg,
	}
}

// Alert sends an email with the given subject and message
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	auth := smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)

	to := a.cfg.To
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(to, ","), subject, message))

	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)

	err := smtp.SendMail(addr, auth, a.cfg.From, to, msg)
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}

// New returns an EmailAlerter when alerting is enabled, otherwise a
// NoOpAlerter.
func New(cfg config.AlertConfig) Alerter {
	if cfg.Enabled {
		return NewEmailAlerter(cfg)
	}
	return &NoOpAlerter{}
}

// Summarize renders a subject and body for a run's audit findings. The
// body lists one line per flag, grouped by rule in first-seen order.
func Summarize(source string, flags []types.Flag) (subject, message string) {
	subject = fmt.Sprintf("relgraph: %d audit finding(s) in %s", len(flags), source)

	byRule := make(map[types.FlagRule][]types.Flag)
	var order []types.FlagRule
	for _, flag := range flags {
		if _, seen := byRule[flag.Rule]; !seen {
			order = append(order, flag.Rule)
		}
		byRule[flag.Rule] = append(byRule[flag.Rule], flag)
	}

	var b strings.Builder
	for _, rule := range order {
		fmt.Fprintf(&b, "%s (%d):\n", rule, len(byRule[rule]))
		for _, flag := range byRule[rule] {
			fmt.Fprintf(&b, "  line %d party %s: %s\n", flag.Line, flag.PartyID, flag.Detail)
		}
	}
	return subject, b.String()
}
