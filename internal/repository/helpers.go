package repository

import (
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
)

// ClientStore scopes root to one client's keys.
func ClientStore(root *kv.Store, clientID string) *kv.Store {
	return root.Namespace(kv.ClientNamespace, clientID)
}

// SessionStore scopes root to one browser session's keys.
func SessionStore(root *kv.Store, sessionID string) *kv.Store {
	return root.Namespace(kv.SessionNamespace, sessionID)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
