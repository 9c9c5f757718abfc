package kv

import "strings"

// Persisted keys. Session keys live in a session namespace, client keys in a
// client namespace and the rest in the root namespace.
const (
	KeyCurrentUser     = "currentUser"
	KeyCurrentUserType = "currentUserType"
	KeyIsAuthenticated = "isAuthenticated"
	KeyAdminSession    = "adminSession"
	KeyClientSession   = "clientSession"
	KeyLoginAt         = "loginAt"

	KeyUploadedDocuments = "uploadedDocuments"
	KeyUploadedFiles     = "uploadedFiles"
	KeyRecentActivities  = "recentActivities"
	KeyClientMessages    = "clientMessages"
	KeyChecklistData     = "checklistData"
	KeyTimelineData      = "timelineData"
	KeyApplicationStatus = "applicationStatus"

	KeyUsers               = "users"
	KeyDocumentReviews     = "documentReviews"
	KeyApplications        = "applications"
	KeyAdminCommunications = "adminCommunications"
	KeyAdminMessages       = "adminMessages"
	KeyAdminActivities     = "adminActivities"
	KeyContactMessages     = "contactMessages"
)

// SessionKeys are purged together on logout and on a failed gate check.
var SessionKeys = []string{
	KeyCurrentUser,
	KeyCurrentUserType,
	KeyIsAuthenticated,
	KeyAdminSession,
	KeyClientSession,
	KeyLoginAt,
}

// Namespace names.
const (
	SessionNamespace = "session"
	ClientNamespace  = "client"
)

// QuotaScope is the namespace a full key is charged to: "client/<id>/" and
// "session/<id>/" each have their own allowance, everything else shares the
// root one ("").
func QuotaScope(key string) string {
	for _, ns := range []string{ClientNamespace, SessionNamespace} {
		rest, ok := strings.CutPrefix(key, ns+"/")
		if !ok {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i > 0 {
			return key[:len(ns)+1+i+1]
		}
	}
	return ""
}
