package llmmix

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateBaseURL accepts only absolute https URLs without userinfo, query or
// fragment whose host is in allowedHosts, or in defaultHosts when
// allowedHosts is empty.
func ValidateBaseURL(baseURL string, allowedHosts, defaultHosts []string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid reorder base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid reorder base URL %q: absolute URL with host is required", baseURL)
	}
	if u.User != nil {
		return fmt.Errorf("invalid reorder base URL %q: userinfo is not allowed", baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid reorder base URL %q: query and fragment are not allowed", baseURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("invalid reorder base URL %q: host is required", baseURL)
	}
	if strings.ToLower(u.Scheme) != "https" {
		return fmt.Errorf("invalid reorder base URL %q: https is required", baseURL)
	}

	allowed := normalizeHosts(allowedHosts)
	if len(allowed) == 0 {
		allowed = normalizeHosts(defaultHosts)
	}
	if _, ok := allowed[host]; !ok {
		return fmt.Errorf("invalid reorder base URL %q: host %q is not in reorder.allowed_hosts", baseURL, host)
	}
	return nil
}

func normalizeHosts(hosts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if v == "" {
			continue
		}
		if i := strings.Index(v, ":"); i >= 0 {
			v = v[:i]
		}
		out[v] = struct{}{}
	}
	return out
}
