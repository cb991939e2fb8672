package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Order is the summary the back office receives once per session.
type Order struct {
	OrderID         string
	FirstName       string
	LastName        string
	Coach           string
	PackName        string
	JerseySize      string
	ShirtSize       string
	HoodieSize      string
	ExtrasLabels    []string          // display labels incl. sizes
	ExtraSizesByID  map[string]string // extra id -> chosen size ("" when sizeless)
	TotalCents      int64
	ReferenceNumber string
}

// Notifier sends the order confirmation email and appends the spreadsheet
// row. The email outcome is the notifier's result; the spreadsheet call is
// fire-and-forget on a background goroutine.
type Notifier struct {
	email      *EmailClient
	sheet      *SheetClient
	clubName   string
	currency   string
	iban       string
	model      string
	recipients []string
	logger     *zap.Logger
}

// NewNotifier wires the two collaborators with the club identity used in
// the outgoing messages.
func NewNotifier(email *EmailClient, sheet *SheetClient, clubName, currency, iban, model string, recipients []string, logger *zap.Logger) *Notifier {
	return &Notifier{
		email:      email,
		sheet:      sheet,
		clubName:   clubName,
		currency:   currency,
		iban:       iban,
		model:      model,
		recipients: recipients,
		logger:     logger,
	}
}

// Send notifies the back office. The returned error reflects the email
// relay only; the spreadsheet append never fails the notification.
func (n *Notifier) Send(ctx context.Context, o Order) error {
	n.appendSheet(o)

	if !n.email.Enabled() {
		n.logger.Info("email relay not configured, skipping confirmation email",
			zap.String("orderId", o.OrderID))
		return nil
	}
	msg := n.buildEmail(o)
	if err := n.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("order %s: %w", o.OrderID, err)
	}
	n.logger.Info("order confirmation emailed",
		zap.String("orderId", o.OrderID),
		zap.Strings("to", msg.To))
	return nil
}

func (n *Notifier) appendSheet(o Order) {
	if !n.sheet.Enabled() {
		return
	}
	extrasJSON, err := json.Marshal(o.ExtraSizesByID)
	if err != nil {
		extrasJSON = []byte("{}")
	}
	rec := Record{
		OrderID:         o.OrderID,
		FirstName:       o.FirstName,
		LastName:        o.LastName,
		Coach:           o.Coach,
		PackName:        o.PackName,
		JerseySize:      o.JerseySize,
		ShirtSize:       o.ShirtSize,
		HoodieSize:      o.HoodieSize,
		Extras:          strings.Join(o.ExtrasLabels, ", "),
		ExtrasJSON:      string(extrasJSON),
		Total:           formatTotal(o.TotalCents),
		ReferenceNumber: o.ReferenceNumber,
		IBAN:            n.iban,
		Model:           n.model,
	}
	go n.sheet.Append(context.Background(), rec)
}

func (n *Notifier) buildEmail(o Order) Message {
	extras := "—"
	if len(o.ExtrasLabels) > 0 {
		extras = strings.Join(o.ExtrasLabels, ", ")
	}
	lines := []string{
		fmt.Sprintf("%s – potvrda narudžbe", n.clubName),
		fmt.Sprintf("Narudžba: %s", o.OrderID),
		fmt.Sprintf("Dijete: %s %s", o.FirstName, o.LastName),
		fmt.Sprintf("Trener: %s", o.Coach),
		fmt.Sprintf("Paket: %s", o.PackName),
		fmt.Sprintf("Veličine (paket): dres %s, majica %s, hoodica %s", o.JerseySize, o.ShirtSize, o.HoodieSize),
		fmt.Sprintf("Dodatno: %s", extras),
		fmt.Sprintf("Ukupno: %s %.2f", n.currency, float64(o.TotalCents)/100),
		fmt.Sprintf("Poziv na broj: %s", o.ReferenceNumber),
		fmt.Sprintf("IBAN: %s", n.iban),
	}
	text := strings.Join(lines, "\n")
	return Message{
		To:      n.recipients,
		Subject: fmt.Sprintf("%s – Narudžba %s", n.clubName, o.OrderID),
		Text:    text,
		HTML:    `<pre style="font-family: ui-monospace, SFMono-Regular, Menlo, monospace">` + text + `</pre>`,
	}
}

func formatTotal(cents int64) string {
	if cents%100 == 0 {
		return strconv.FormatInt(cents/100, 10)
	}
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
