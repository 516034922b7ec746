package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventAssessmentCompleted = "assessment_completed"
	EventReportReady         = "report_ready"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

type AssessmentCompletedData struct {
	AttemptID   uuid.UUID `json:"attempt_id"`
	Assessment  string    `json:"assessment"`
	Instrument  string    `json:"instrument"`
	HollandCode string    `json:"holland_code,omitempty"`
}

type ReportReadyData struct {
	ReportID    uuid.UUID `json:"report_id"`
	HollandCode string    `json:"holland_code"`
	TopCareer   string    `json:"top_career,omitempty"`
}

// Notifier delivers typed events to a user's open connections.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) AssessmentCompleted(userID uuid.UUID, data AssessmentCompletedData) {
	n.notify(userID, EventAssessmentCompleted, data)
}

func (n *Notifier) ReportReady(userID uuid.UUID, data ReportReadyData) {
	n.notify(userID, EventReportReady, data)
}

func (n *Notifier) notify(userID uuid.UUID, typ string, data any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      typ,
		Data:      data,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.hub.logger.Warn("ws event encode failed", zap.String("type", typ), zap.Error(err))
		return
	}
	n.hub.Send(userID, b)
}
