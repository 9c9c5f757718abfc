package repository

import (
	"context"
	"strings"
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// Session is what one session namespace holds.
type Session struct {
	User        *models.User
	AdminFlag   bool
	ClientFlag  bool
	AccountType string
}

// SessionRepo reads and writes the session keys of a session namespace.
type SessionRepo struct {
	root *kv.Store
}

func NewSessionRepo(root *kv.Store) *SessionRepo {
	return &SessionRepo{root: root}
}

// Create writes the session keys for a fresh login.
func (r *SessionRepo) Create(ctx context.Context, sessionID string, user models.User) error {
	s := SessionStore(r.root, sessionID)
	if err := s.Save(ctx, kv.KeyLoginAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.Save(ctx, kv.KeyCurrentUser, user); err != nil {
		return err
	}
	if err := s.Save(ctx, kv.KeyCurrentUserType, user.AccountType); err != nil {
		return err
	}
	if err := s.Save(ctx, kv.KeyIsAuthenticated, true); err != nil {
		return err
	}
	flag := kv.KeyClientSession
	if user.AccountType == models.RoleAdmin {
		flag = kv.KeyAdminSession
	}
	return s.Save(ctx, flag, true)
}

func (r *SessionRepo) Load(ctx context.Context, sessionID string) (*Session, error) {
	s := SessionStore(r.root, sessionID)
	var sess Session

	var user models.User
	ok, err := s.Load(ctx, kv.KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if ok {
		sess.User = &user
	}
	if sess.AdminFlag, err = s.Has(ctx, kv.KeyAdminSession); err != nil {
		return nil, err
	}
	if sess.ClientFlag, err = s.Has(ctx, kv.KeyClientSession); err != nil {
		return nil, err
	}
	if _, err := s.Load(ctx, kv.KeyCurrentUserType, &sess.AccountType); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Purge removes every session key.
func (r *SessionRepo) Purge(ctx context.Context, sessionID string) error {
	return SessionStore(r.root, sessionID).Remove(ctx, kv.SessionKeys...)
}

// Keys lists the keys still present in a session namespace.
func (r *SessionRepo) Keys(ctx context.Context, sessionID string) ([]string, error) {
	return SessionStore(r.root, sessionID).Keys(ctx)
}

// PurgeExpired purges every session that logged in before cutoff. Sessions
// without a readable login time are purged too.
func (r *SessionRepo) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	keys, err := r.root.Namespace(kv.SessionNamespace).Keys(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool)
	purged := 0
	for _, k := range keys {
		sid, _, ok := strings.Cut(k, "/")
		if !ok || seen[sid] {
			continue
		}
		seen[sid] = true

		var at string
		if _, err := SessionStore(r.root, sid).Load(ctx, kv.KeyLoginAt, &at); err != nil {
			return purged, err
		}
		if t, err := time.Parse(time.RFC3339, at); err == nil && !t.Before(cutoff) {
			continue
		}
		if err := r.Purge(ctx, sid); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
