package observability

import (
	"net"
	"net/http"
	"strings"
)

// ClientMeta identifies where a request came from.
type ClientMeta struct {
	RequestID string
	DeviceID  string
	IP        string
	UserAgent string
}

// ClientMetaFromRequest reads the client headers set by the mobile apps and
// the edge proxy.
func ClientMetaFromRequest(r *http.Request) ClientMeta {
	return ClientMeta{
		RequestID: r.Header.Get("X-Request-Id"),
		DeviceID:  r.Header.Get("X-Device-Id"),
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// Fields is the identity block attached to published events.
func (m ClientMeta) Fields() map[string]any {
	return map[string]any{
		"device_id":  m.DeviceID,
		"ip":         m.IP,
		"user_agent": m.UserAgent,
	}
}

// clientIP takes the first parseable X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
