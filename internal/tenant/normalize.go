package tenant

import "strings"

// NormalizeHost lowercases a request host and strips the port and a leading
// "www." so "WWW.BellaStudio.com:8443" matches the stored "bellastudio.com".
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	return host
}

// NormalizePhone reduces a phone number to its digits.
func NormalizePhone(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
