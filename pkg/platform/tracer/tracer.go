// Package tracer is a small tracing facade used by the services on their
// critical paths (provisioning, login, quota reservation).
//
// The only implementation adapts OpenTelemetry; NewNoop binds it to the
// no-op provider for tests and processes without an exporter.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span; a non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is attached to spans and events.
type Attribute = attribute.KeyValue

func String(key, value string) Attribute { return attribute.String(key, value) }

func Bool(key string, value bool) Attribute { return attribute.Bool(key, value) }

func Int64(key string, value int64) Attribute { return attribute.Int64(key, value) }

func Int(key string, value int) Attribute { return attribute.Int(key, value) }

// HashIdentifier shortens a SHA-256 of the lowercased value so spans can be
// correlated per account without carrying the email itself.
func HashIdentifier(value string) string {
	if value == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(strings.ToLower(value)))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanTenantProvision = "tenant.provision"
	SpanTenantUpgrade   = "tenant.upgrade"
	SpanAuthLogin       = "auth.login"
	SpanQuotaReserve    = "quota.reserve"
)

// Attribute keys.
const (
	AttrTenantID   = "tenant.id"
	AttrSubdomain  = "tenant.subdomain"
	AttrPlan       = "tenant.plan"
	AttrResource   = "quota.resource"
	AttrUsage      = "quota.usage"
	AttrLimit      = "quota.limit"
	AttrIdentifier = "auth.identifier"
	AttrRole       = "auth.role"
	AttrOutcome    = "outcome"
)
