package service

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Notifier is the port for logical collection events. Delivery (email, portal
// push) is an external collaborator; the core only emits.
type Notifier interface {
	// DocumentsRequested signals that the accountant asked the client for
	// documents in a period.
	DocumentsRequested(ctx context.Context, periodID, clientID string, titles []string)
	// PeriodClosed signals that a period was closed, with any incompleteness
	// warnings that accompanied the close.
	PeriodClosed(ctx context.Context, periodID, clientID string, warnings []string)
}

// logNotifier writes events as JSON lines, one object per line, matching the
// application's log format.
type logNotifier struct {
	enc *json.Encoder
	loc *time.Location
}

// NewLogNotifier returns a Notifier that logs events to w.
func NewLogNotifier(w io.Writer, loc *time.Location) Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &logNotifier{enc: json.NewEncoder(w), loc: loc}
}

func (n *logNotifier) DocumentsRequested(_ context.Context, periodID, clientID string, titles []string) {
	n.emit(map[string]any{
		"event":     "documents_requested",
		"period_id": periodID,
		"client_id": clientID,
		"titles":    titles,
	})
}

func (n *logNotifier) PeriodClosed(_ context.Context, periodID, clientID string, warnings []string) {
	n.emit(map[string]any{
		"event":     "period_closed",
		"period_id": periodID,
		"client_id": clientID,
		"warnings":  warnings,
	})
}

func (n *logNotifier) emit(entry map[string]any) {
	entry["ts"] = time.Now().In(n.loc).Format(time.RFC3339Nano)
	entry["level"] = "info"
	entry["component"] = "notifier"
	_ = n.enc.Encode(entry)
}
