package domain

import "time"

// AuditKind labels the authentication events the gateway records.
type AuditKind string

const (
	AuditLoginSuccess   AuditKind = "login_success"
	AuditLoginFallback  AuditKind = "login_fallback"
	AuditLoginRejected  AuditKind = "login_rejected"
	AuditLoginChallenge AuditKind = "login_challenge"
	AuditTokenRefresh   AuditKind = "token_refresh"
	AuditLogout         AuditKind = "logout"
	AuditPasswordChange AuditKind = "password_change"
	AuditPasswordReset  AuditKind = "password_reset"
)

// ClientKind records which app client served an authentication attempt.
type ClientKind string

const (
	ClientPublic       ClientKind = "public"
	ClientConfidential ClientKind = "confidential"
)

// AuditEvent is one append-only record of an authentication action.
// Subject is empty for attempts that never produced verified tokens.
type AuditEvent struct {
	ID         string
	Kind       AuditKind
	Subject    string
	Username   string
	ClientKind ClientKind
	Detail     string
	CreatedAt  time.Time
}
