package common

import (
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/gin-gonic/gin"
)

var auditLogger = logs.NewDefault()

// SetAuditLogger sets the logger used for audit events.
func SetAuditLogger(l *logs.Logger) {
	if l != nil {
		auditLogger = l
	}
}

// AuditEvent represents a security-relevant event for audit logging.
type AuditEvent struct {
	// Action identifies the operation (e.g., "auth.token", "user.delete").
	Action string
	// Principal is the authenticated admin (empty when auth is disabled).
	Principal string
	// Resource identifies the target (e.g., "user:42").
	Resource string
	// ClientIP is the client's IP address.
	ClientIP string
	// Detail provides optional extra context.
	Detail string
	Success bool
}

// AuditLog emits a structured audit log entry from a gin request context.
// Log entries include audit=true for easy filtering.
func AuditLog(c *gin.Context, event AuditEvent) {
	status := "success"
	if !event.Success {
		status = "failure"
	}

	clientIP := event.ClientIP
	if clientIP == "" && c != nil {
		clientIP = c.ClientIP()
	}
	if event.Principal == "" && c != nil {
		if claims := GetClaimsFromContext(c); claims != nil {
			event.Principal = claims.Username
		}
	}

	args := []any{
		"audit", true,
		"action", event.Action,
		"status", status,
		"client_ip", clientIP,
	}
	if event.Principal != "" {
		args = append(args, "principal", event.Principal)
	}
	if event.Resource != "" {
		args = append(args, "resource", event.Resource)
	}
	if event.Detail != "" {
		args = append(args, "detail", event.Detail)
	}

	auditLogger.Info("audit", args...)
}
