package domain

import "time"

// Step is a position in the linear order wizard. Transitions move one step
// forward or backward, never skip.
type Step int

const (
	StepLogin Step = iota
	StepChoose
	StepExtras
	StepReview
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepChoose:
		return "choose"
	case StepExtras:
		return "extras"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Next returns the following step and whether one exists.
func (s Step) Next() (Step, bool) {
	if s >= StepPayment {
		return s, false
	}
	return s + 1, true
}

// Prev returns the preceding step and whether one exists.
func (s Step) Prev() (Step, bool) {
	if s <= StepLogin {
		return s, false
	}
	return s - 1, true
}

// NotifyStatus tracks the one-shot back-office notification latch.
type NotifyStatus string

const (
	NotifyIdle    NotifyStatus = "idle"
	NotifySending NotifyStatus = "sending"
	NotifySent    NotifyStatus = "sent"
	NotifyFailed  NotifyStatus = "failed"
)

// PackageSizes are the three size selections collected with a package.
type PackageSizes struct {
	Jersey string `json:"jersey"`
	Shirt  string `json:"shirt"`
	Hoodie string `json:"hoodie"`
}

// Complete reports whether all three sizes have been chosen.
func (p PackageSizes) Complete() bool {
	return p.Jersey != "" && p.Shirt != "" && p.Hoodie != ""
}

// Draft is the mutable per-session order aggregate. It is created empty at
// session start and mutated only through wizard transitions; it is never
// persisted.
type Draft struct {
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Coach        string            `json:"coach"`
	PackageID    string            `json:"packageId,omitempty"`
	PackageSizes PackageSizes      `json:"packageSizes"`
	Extras       map[string]bool   `json:"-"`
	ExtraSizes   map[string]string `json:"extraSizes,omitempty"`
	OrderID      string            `json:"orderId"`
	Reference    string            `json:"referenceNumber,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// SelectedExtras returns the selected extra ids in stable input order.
func (d *Draft) SelectedExtras(order []string) []string {
	out := make([]string, 0, len(d.Extras))
	for _, id := range order {
		if d.Extras[id] {
			out = append(out, id)
		}
	}
	return out
}
