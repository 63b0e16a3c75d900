package httputil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	id "saasbase/pkg/domain"
)

// TenantHeader lets super-admins name a tenant on routes without a {tenantId} segment.
const TenantHeader = "X-Tenant-ID"

// RequestedTenant returns the tenant named by the {tenantId} path parameter or,
// failing that, the X-Tenant-ID header. nil means the request names none.
func RequestedTenant(r *http.Request) (*id.TenantID, error) {
	raw := chi.URLParam(r, "tenantId")
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get(TenantHeader))
	}
	if raw == "" {
		return nil, nil
	}
	tenantID, err := id.ParseTenantID(raw)
	if err != nil {
		return nil, err
	}
	return &tenantID, nil
}
