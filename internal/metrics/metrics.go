package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComplaintsCreated counts complaint submissions.
	ComplaintsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusdesk_complaints_created_total",
		Help: "Number of complaints submitted.",
	})

	// StatusUpdates counts admin status changes by resulting status.
	StatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusdesk_complaint_status_updates_total",
		Help: "Number of complaint status updates.",
	}, []string{"status"})

	// MailsSent counts successfully accepted outbound emails.
	MailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusdesk_mails_sent_total",
		Help: "Number of emails accepted by the SMTP transport.",
	})

	// MailsFailed counts rejected or failed outbound emails.
	MailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusdesk_mails_failed_total",
		Help: "Number of emails the SMTP transport rejected.",
	})
)
