// Package wizard implements the guarded five-step order flow: Login →
// Choose → Extras → Review → Payment. Forward transitions validate, back
// transitions never do, and entering Payment triggers the one-shot
// back-office notification.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cluborder/internal/catalog"
	"cluborder/internal/config"
	"cluborder/internal/domain"
	"cluborder/internal/hub3"
	"cluborder/internal/notify"
)

// Notifier sends the order summary to the back office once per session.
type Notifier interface {
	Send(ctx context.Context, o notify.Order) error
}

// Service owns all live order sessions.
type Service struct {
	catalog  *catalog.Catalog
	cfg      *config.Config
	notifier Notifier
	store    *store
	logger   *zap.Logger
}

// New builds the wizard service.
func New(cat *catalog.Catalog, cfg *config.Config, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		catalog:  cat,
		cfg:      cfg,
		notifier: notifier,
		store:    newStore(cfg.SessionTTL),
		logger:   logger,
	}
}

// Snapshot is a read-only view of a session handed to the transport layer.
type Snapshot struct {
	ID             string              `json:"id"`
	Step           string              `json:"step"`
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	Coach          string              `json:"coach"`
	PackageID      string              `json:"packageId,omitempty"`
	PackageSizes   domain.PackageSizes `json:"packageSizes"`
	SelectedExtras []string            `json:"selectedExtras"`
	ExtraSizes     map[string]string   `json:"extraSizes"`
	ExtrasLabels   []string            `json:"extrasLabels"`
	OrderID        string              `json:"orderId"`
	Reference      string              `json:"referenceNumber,omitempty"`
	TotalCents     int64               `json:"totalCents"`
	NotifyStatus   string              `json:"notifyStatus"`
}

// PaymentInfo is everything the payment step shows, HUB-3 payload included.
type PaymentInfo struct {
	OrderID              string `json:"orderId"`
	Receiver             string `json:"receiver"`
	IBAN                 string `json:"iban"`
	Model                string `json:"model,omitempty"`
	Reference            string `json:"referenceNumber"`
	Description          string `json:"description"`
	Currency             string `json:"currency"`
	TotalCents           int64  `json:"totalCents"`
	SupportContact       string `json:"supportContact,omitempty"`
	DeliveryLeadTimeDays int    `json:"deliveryLeadTimeDays,omitempty"`
	Payload              string `json:"payload"`
	NotifyStatus         string `json:"notifyStatus"`
}

// Create opens a new session at the Login step. The order id is generated
// here and stays stable for the session's lifetime.
func (s *Service) Create() (Snapshot, error) {
	sess, err := newSession(s.cfg.ReferencePrefix, s.store.now())
	if err != nil {
		return Snapshot{}, err
	}
	id := s.store.create(sess)
	s.logger.Info("session created", zap.String("sessionId", id), zap.String("orderId", sess.draft.OrderID))
	return s.snapshot(sess), nil
}

// Get returns the current session state.
func (s *Service) Get(id string) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(sess), nil
}

// BuyerInput updates the identification fields collected at Login.
type BuyerInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Coach     *string `json:"coach"`
}

// SetBuyer applies a partial buyer update.
func (s *Service) SetBuyer(id string, in BuyerInput) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	if in.FirstName != nil {
		sess.draft.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		sess.draft.LastName = *in.LastName
	}
	if in.Coach != nil {
		sess.draft.Coach = *in.Coach
	}
	sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// PackageInput updates the package selection and the three size fields.
type PackageInput struct {
	PackageID  *string `json:"packageId"`
	JerseySize *string `json:"jerseySize"`
	ShirtSize  *string `json:"shirtSize"`
	HoodieSize *string `json:"hoodieSize"`
}

// SetPackage applies a partial package/sizes update. Non-empty sizes must
// come from the configured size lists.
func (s *Service) SetPackage(id string, in PackageInput) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if in.PackageID != nil && *in.PackageID != "" && s.catalog.PackageByID(*in.PackageID) == nil {
		return Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownPackage, *in.PackageID)
	}
	if in.JerseySize != nil && *in.JerseySize != "" && !s.catalog.ValidJerseySize(*in.JerseySize) {
		return Snapshot{}, fmt.Errorf("%w: jersey %q", domain.ErrInvalidSize, *in.JerseySize)
	}
	if in.ShirtSize != nil && *in.ShirtSize != "" && !s.catalog.ValidShirtSize(*in.ShirtSize) {
		return Snapshot{}, fmt.Errorf("%w: shirt %q", domain.ErrInvalidSize, *in.ShirtSize)
	}
	if in.HoodieSize != nil && *in.HoodieSize != "" && !s.catalog.ValidHoodieSize(*in.HoodieSize) {
		return Snapshot{}, fmt.Errorf("%w: hoodie %q", domain.ErrInvalidSize, *in.HoodieSize)
	}

	sess.mu.Lock()
	if in.PackageID != nil {
		sess.draft.PackageID = *in.PackageID
	}
	if in.JerseySize != nil {
		sess.draft.PackageSizes.Jersey = *in.JerseySize
	}
	if in.ShirtSize != nil {
		sess.draft.PackageSizes.Shirt = *in.ShirtSize
	}
	if in.HoodieSize != nil {
		sess.draft.PackageSizes.Hoodie = *in.HoodieSize
	}
	sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// ToggleExtra selects or deselects an add-on. Deselecting drops its chosen
// size.
func (s *Service) ToggleExtra(id, extraID string) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	ex := s.catalog.ExtraByID(extraID)
	if ex == nil {
		return Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownExtra, extraID)
	}
	sess.mu.Lock()
	if sess.draft.Extras[extraID] {
		delete(sess.draft.Extras, extraID)
		delete(sess.draft.ExtraSizes, extraID)
	} else {
		sess.draft.Extras[extraID] = true
	}
	sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// SetExtraSize records a size choice for a selected, size-variant extra.
func (s *Service) SetExtraSize(id, extraID, size string) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	ex := s.catalog.ExtraByID(extraID)
	if ex == nil {
		return Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownExtra, extraID)
	}
	if !ex.HasSizes() {
		return Snapshot{}, fmt.Errorf("%w: %q takes no size", domain.ErrInvalidSize, extraID)
	}
	if !ex.ValidSize(size) {
		return Snapshot{}, fmt.Errorf("%w: %q for %q", domain.ErrInvalidSize, size, extraID)
	}
	sess.mu.Lock()
	if !sess.draft.Extras[extraID] {
		sess.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: extra %q not selected", domain.ErrUnknownExtra, extraID)
	}
	sess.draft.ExtraSizes[extraID] = size
	sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// Advance moves the session one step forward if the current step's guard
// holds. Entering Payment assigns the payment reference and fires the
// one-shot notification.
func (s *Service) Advance(ctx context.Context, id string) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	next, ok := sess.step.Next()
	if !ok {
		sess.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: already at final step", domain.ErrTransitionBlocked)
	}
	if reason := s.guardLocked(sess); reason != "" {
		sess.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %s", domain.ErrTransitionBlocked, reason)
	}
	sess.step = next
	enteredPayment := next == domain.StepPayment
	if enteredPayment && sess.draft.Reference == "" {
		ref, rerr := randomReference()
		if rerr != nil {
			sess.step = domain.StepReview
			sess.mu.Unlock()
			return Snapshot{}, rerr
		}
		sess.draft.Reference = ref
	}
	sess.mu.Unlock()

	if enteredPayment {
		s.maybeNotify(sess)
	}
	s.logger.Debug("session advanced",
		zap.String("sessionId", sess.id),
		zap.Stringer("step", next))
	return s.snapshot(sess), nil
}

// Back moves one step backward without re-validating.
func (s *Service) Back(id string) (Snapshot, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	prev, ok := sess.step.Prev()
	if !ok {
		sess.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: already at first step", domain.ErrTransitionBlocked)
	}
	sess.step = prev
	sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// guardLocked checks the current step's forward guard. Empty string means
// the advance is permitted. Caller holds sess.mu.
func (s *Service) guardLocked(sess *session) string {
	d := &sess.draft
	switch sess.step {
	case domain.StepLogin:
		if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" || strings.TrimSpace(d.Coach) == "" {
			return "first name, last name and coach are required"
		}
	case domain.StepChoose:
		if d.PackageID == "" || s.catalog.PackageByID(d.PackageID) == nil {
			return "a package must be selected"
		}
		if !d.PackageSizes.Complete() {
			return "jersey, shirt and hoodie sizes are required"
		}
	case domain.StepExtras:
		for _, exID := range d.SelectedExtras(s.catalog.ExtraOrder()) {
			ex := s.catalog.ExtraByID(exID)
			if ex != nil && ex.HasSizes() && d.ExtraSizes[exID] == "" {
				return fmt.Sprintf("size missing for %s", ex.Label)
			}
		}
	case domain.StepReview:
		// informational step, advance is unconditional
	}
	return ""
}

// maybeNotify performs the check-and-set on the notification latch. Only
// the idle state fires; sending, sent and failed all suppress re-entry.
func (s *Service) maybeNotify(sess *session) {
	sess.mu.Lock()
	if sess.notify != domain.NotifyIdle {
		sess.mu.Unlock()
		return
	}
	sess.notify = domain.NotifySending
	order := s.orderSummaryLocked(sess)
	sessID := sess.id
	sess.mu.Unlock()

	// Detached from the request: the notification must survive the HTTP
	// call that triggered it and must never block the payment view.
	go func() {
		err := s.notifier.Send(context.Background(), order)
		sess.mu.Lock()
		if err != nil {
			sess.notify = domain.NotifyFailed
		} else {
			sess.notify = domain.NotifySent
		}
		sess.mu.Unlock()
		if err != nil {
			s.logger.Warn("order notification failed",
				zap.String("sessionId", sessID),
				zap.String("orderId", order.OrderID),
				zap.Error(err))
		}
	}()
}

// PaymentInfo returns the payment instructions and the HUB-3 payload. Only
// valid while the session is on the Payment step.
func (s *Service) PaymentInfo(id string) (PaymentInfo, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return PaymentInfo{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.step != domain.StepPayment {
		return PaymentInfo{}, domain.ErrNotPayment
	}
	d := &sess.draft
	// mutators stay open on earlier steps, so the package can vanish after
	// the step guard ran; never emit a zero-amount payload
	if s.catalog.PackageByID(d.PackageID) == nil {
		return PaymentInfo{}, fmt.Errorf("%w: no package selected", domain.ErrNotPayment)
	}
	total := s.totalLocked(sess)
	payload, err := hub3.Encode(hub3.Params{
		AmountEUR:    float64(total) / 100,
		IBAN:         s.cfg.IBAN,
		Model:        s.cfg.PaymentModel,
		Reference:    d.Reference,
		ReceiverName: s.cfg.ClubName,
		Description:  fmt.Sprintf("oprema %s %s", d.FirstName, d.LastName),
	})
	if err != nil {
		return PaymentInfo{}, fmt.Errorf("build payment payload: %w", err)
	}
	return PaymentInfo{
		OrderID:              d.OrderID,
		Receiver:             s.cfg.ClubName,
		IBAN:                 s.cfg.IBAN,
		Model:                s.cfg.PaymentModel,
		Reference:            d.Reference,
		Description:          fmt.Sprintf("%s – %s %s", d.OrderID, d.FirstName, d.LastName),
		Currency:             s.cfg.Currency,
		TotalCents:           total,
		SupportContact:       s.cfg.SupportContact,
		DeliveryLeadTimeDays: s.cfg.DeliveryLeadTimeDays,
		Payload:              payload,
		NotifyStatus:         string(sess.notify),
	}, nil
}

// Payload returns just the HUB-3 payload for barcode rendering.
func (s *Service) Payload(id string) (string, error) {
	info, err := s.PaymentInfo(id)
	if err != nil {
		return "", err
	}
	return info.Payload, nil
}

// totalLocked derives the order total in cents. Caller holds sess.mu.
func (s *Service) totalLocked(sess *session) int64 {
	pkg := s.catalog.PackageByID(sess.draft.PackageID)
	if pkg == nil {
		return 0
	}
	total := pkg.PriceCents
	for id := range sess.draft.Extras {
		if ex := s.catalog.ExtraByID(id); ex != nil {
			total += ex.PriceCents
		}
	}
	return total
}

// extrasLabelsLocked builds display labels in catalog order, sizes attached
// where the item has them. Caller holds sess.mu.
func (s *Service) extrasLabelsLocked(sess *session) []string {
	out := []string{}
	for _, id := range sess.draft.SelectedExtras(s.catalog.ExtraOrder()) {
		ex := s.catalog.ExtraByID(id)
		if ex == nil {
			continue
		}
		if ex.HasSizes() {
			size := sess.draft.ExtraSizes[id]
			if size == "" {
				size = "—"
			}
			out = append(out, fmt.Sprintf("%s (%s)", ex.Label, size))
		} else {
			out = append(out, ex.Label)
		}
	}
	return out
}

// orderSummaryLocked builds the back-office summary. Caller holds sess.mu.
func (s *Service) orderSummaryLocked(sess *session) notify.Order {
	d := &sess.draft
	packName := ""
	if pkg := s.catalog.PackageByID(d.PackageID); pkg != nil {
		packName = pkg.Name
	}
	sizes := make(map[string]string, len(d.Extras))
	for id := range d.Extras {
		if ex := s.catalog.ExtraByID(id); ex != nil && ex.HasSizes() {
			sizes[id] = d.ExtraSizes[id]
		} else {
			sizes[id] = ""
		}
	}
	return notify.Order{
		OrderID:         d.OrderID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Coach:           d.Coach,
		PackName:        packName,
		JerseySize:      d.PackageSizes.Jersey,
		ShirtSize:       d.PackageSizes.Shirt,
		HoodieSize:      d.PackageSizes.Hoodie,
		ExtrasLabels:    s.extrasLabelsLocked(sess),
		ExtraSizesByID:  sizes,
		TotalCents:      s.totalLocked(sess),
		ReferenceNumber: d.Reference,
	}
}

func (s *Service) snapshot(sess *session) Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	d := &sess.draft
	sizes := make(map[string]string, len(d.ExtraSizes))
	for k, v := range d.ExtraSizes {
		sizes[k] = v
	}
	return Snapshot{
		ID:             sess.id,
		Step:           sess.step.String(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Coach:          d.Coach,
		PackageID:      d.PackageID,
		PackageSizes:   d.PackageSizes,
		SelectedExtras: d.SelectedExtras(s.catalog.ExtraOrder()),
		ExtraSizes:     sizes,
		ExtrasLabels:   s.extrasLabelsLocked(sess),
		OrderID:        d.OrderID,
		Reference:      d.Reference,
		TotalCents:     s.totalLocked(sess),
		NotifyStatus:   string(sess.notify),
	}
}
