package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pandodao/rewardtribe/core"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	ID        string         `json:"id"`
	Level     Level          `json:"level"`
	Kind      core.ErrorKind `json:"kind,omitempty"`
	Action    string         `json:"action,omitempty"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
}

// Notifier keeps the most recent notices, oldest dropped first.
type Notifier struct {
	mux      sync.Mutex
	capacity int
	notices  []Notice
}

func NewNotifier(capacity int) *Notifier {
	if capacity <= 0 {
		capacity = 50
	}

	return &Notifier{capacity: capacity}
}

func (n *Notifier) push(level Level, kind core.ErrorKind, action, msg string) Notice {
	notice := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Kind:      kind,
		Action:    action,
		Message:   msg,
		CreatedAt: time.Now(),
	}

	n.mux.Lock()
	defer n.mux.Unlock()

	n.notices = append(n.notices, notice)
	if over := len(n.notices) - n.capacity; over > 0 {
		n.notices = append([]Notice(nil), n.notices[over:]...)
	}

	return notice
}

func (n *Notifier) Success(action, msg string) Notice {
	return n.push(LevelSuccess, "", action, msg)
}

func (n *Notifier) Failure(action string, err error) Notice {
	kind := core.KindOf(err)
	level := LevelError
	if kind == core.KindValidation || kind == core.KindNotRegistered {
		level = LevelWarning
	}

	return n.push(level, kind, action, describe(action, err))
}

// List returns notices oldest first.
func (n *Notifier) List() []Notice {
	n.mux.Lock()
	defer n.mux.Unlock()

	return append([]Notice(nil), n.notices...)
}

func (n *Notifier) Dismiss(id string) bool {
	n.mux.Lock()
	defer n.mux.Unlock()

	for i, notice := range n.notices {
		if notice.ID == id {
			n.notices = append(n.notices[:i:i], n.notices[i+1:]...)
			return true
		}
	}

	return false
}

var actionLabels = map[string]string{
	ActionRegisterStore:  "Store registration",
	ActionRegisterUser:   "Registration",
	ActionPurchase:       "Purchase",
	ActionRefer:          "Referral",
	ActionCreateGiftCard: "Gift card creation",
	ActionAwardGiftCard:  "Gift card award",
	ActionMintGiftCard:   "Gift card mint",
}

func label(action string) string {
	if l, ok := actionLabels[action]; ok {
		return l
	}

	return action
}

// describe names the likely cause of a failed action without dumping the raw error.
func describe(action string, err error) string {
	l := label(action)

	switch core.KindOf(err) {
	case core.KindWalletUnavailable:
		return l + " failed: no wallet connected."
	case core.KindUserRejected:
		return l + " failed: transaction rejected in the wallet."
	case core.KindTransactionReverted:
		return l + " failed: the contract rejected the transaction."
	case core.KindNetwork:
		return l + " failed: network error, please retry."
	case core.KindValidation:
		var v *core.ValidationError
		if errors.As(err, &v) {
			return l + " failed: " + v.Error() + "."
		}
		return l + " failed: invalid input."
	case core.KindNotRegistered:
		return l + " failed: register this account first."
	case core.KindDecode:
		return l + " failed: unexpected response from the contract."
	}

	return l + " failed."
}
