package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/metrics"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

type State string

const (
	Unauthenticated State = "unauthenticated"
	WrongRole       State = "wrong-role"
	Authorized      State = "authorized"
)

// EntryPage is where logout and failed checks send the browser.
const EntryPage = "/"

// Session is an authorized session: its id and the user it belongs to.
type Session struct {
	ID   string
	User models.User
}

type Decision struct {
	State State
	User  *models.User
}

// Redirect tells the caller where to go once Delay has passed.
type Redirect struct {
	To      string `json:"to"`
	DelayMs int64  `json:"delayMs"`
}

// Gate decides whether a session may see a role's pages.
type Gate struct {
	sessions   *repository.SessionRepo
	adminEmail string
	delay      time.Duration
	metrics    *metrics.Metrics
}

// NewGate returns a gate over the session namespaces of root. adminEmail is
// the only identity the admin flavor accepts.
func NewGate(root *kv.Store, adminEmail string, redirectDelay time.Duration, m *metrics.Metrics) *Gate {
	return &Gate{
		sessions:   repository.NewSessionRepo(root),
		adminEmail: adminEmail,
		delay:      redirectDelay,
		metrics:    m,
	}
}

// Check reads the session flag and the cached user of sessionID. A session
// missing either is Unauthenticated; a user whose role differs from role
// is WrongRole. Both outcomes purge the session keys. An empty role accepts
// any authenticated session.
func (g *Gate) Check(ctx context.Context, sessionID, role string) (Decision, error) {
	sess, err := g.sessions.Load(ctx, sessionID)
	if err != nil {
		return Decision{}, err
	}

	flavor := role
	if flavor == "" {
		flavor = "any"
	}
	state := Authorized
	switch {
	case !(sess.AdminFlag || sess.ClientFlag) || sess.User == nil:
		state = Unauthenticated
	case role != "" && sess.User.AccountType != role:
		state = WrongRole
	case sess.User.AccountType == models.RoleAdmin && !strings.EqualFold(sess.User.Email, g.adminEmail):
		state = WrongRole
	}
	g.metrics.GateDecision(flavor, string(state))

	if state != Authorized {
		if err := g.sessions.Purge(ctx, sessionID); err != nil {
			return Decision{}, err
		}
		if state == WrongRole {
			log.Printf("Warning: gate: %s session %s denied for role %q", sess.User.AccountType, sessionID, flavor)
		}
		return Decision{State: state}, nil
	}
	return Decision{State: Authorized, User: sess.User}, nil
}

// Logout clears the session keys and returns the redirect to the entry page.
func (g *Gate) Logout(ctx context.Context, sessionID string) (Redirect, error) {
	if err := g.sessions.Purge(ctx, sessionID); err != nil {
		return Redirect{}, err
	}
	return Redirect{To: EntryPage, DelayMs: g.delay.Milliseconds()}, nil
}

// SweepExpired purges the sessions whose tokens have expired.
func (g *Gate) SweepExpired(ctx context.Context) (int, error) {
	return g.sessions.PurgeExpired(ctx, time.Now().Add(-TokenTTL))
}

// RedirectAfterLogin returns the dashboard redirect for role.
func (g *Gate) RedirectAfterLogin(role string) Redirect {
	to := "/client"
	if role == models.RoleAdmin {
		to = "/admin"
	}
	return Redirect{To: to, DelayMs: g.delay.Milliseconds()}
}
