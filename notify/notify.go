// Package notify delivers the composed HTML e-mails. Delivery is always
// best-effort: a failed or disabled send is reported to the caller, who logs
// it and moves on.
package notify

// Notifier is the outbound channel for alerts and daily reports.
type Notifier interface {
	Send(subject, htmlBody string) error
}
