package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"saasbase/pkg/requestcontext"
)

// MaxForwardedHeaderLength bounds X-Forwarded-For / X-Real-IP values we parse.
const MaxForwardedHeaderLength = 500

// ClientMetadata records the client IP and User-Agent in the request context.
// Forwarding headers are honored only when the direct peer is a trusted proxy.
type ClientMetadata struct {
	trustedProxies []netip.Prefix
}

// NewClientMetadata parses CIDR strings; invalid entries are skipped and returned.
func NewClientMetadata(trustedProxies []string) (*ClientMetadata, []string) {
	m := &ClientMetadata{}
	var invalid []string
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			addr, addrErr := netip.ParseAddr(raw)
			if addrErr != nil {
				invalid = append(invalid, raw)
				continue
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		m.trustedProxies = append(m.trustedProxies, prefix)
	}
	return m, invalid
}

func (m *ClientMetadata) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientIP(r.Context(), m.clientIP(r))
		ctx = requestcontext.WithUserAgent(ctx, r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ClientMetadata) clientIP(r *http.Request) string {
	remote, err := netip.ParseAddrPort(r.RemoteAddr)
	var remoteIP netip.Addr
	if err == nil {
		remoteIP = remote.Addr()
	} else if addr, addrErr := netip.ParseAddr(r.RemoteAddr); addrErr == nil {
		remoteIP = addr
	} else {
		return "unknown"
	}
	remoteIP = remoteIP.Unmap()

	if !m.trusted(remoteIP) {
		return remoteIP.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > MaxForwardedHeaderLength {
			return remoteIP.String()
		}
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.Unmap().String()
		}
		return remoteIP.String()
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxForwardedHeaderLength {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.Unmap().String()
		}
	}
	return remoteIP.String()
}

func (m *ClientMetadata) trusted(ip netip.Addr) bool {
	for _, prefix := range m.trustedProxies {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

// AnonymizeIP keeps the /24 of an IPv4 address or the /48 of an IPv6 address
// so request logs never carry a full client address.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
