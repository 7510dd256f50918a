// Package weburl vets the URLs guide documents are fetched from. The
// checks exist to stop server-side request forgery: only HTTPS is
// accepted, and hostnames or addresses that point inside the local
// network are rejected.
package weburl

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Reserved ranges not covered by the net.IP classification helpers.
var reservedNets = mustParseCIDRs(
	"100.64.0.0/10", // carrier-grade NAT
	"fc00::/7",      // IPv6 unique local
	"fe80::/10",     // IPv6 link-local
)

func mustParseCIDRs(blocks ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, block := range blocks {
		_, network, err := net.ParseCIDR(block)
		if err != nil {
			panic("weburl: invalid CIDR " + block + ": " + err.Error())
		}
		nets = append(nets, network)
	}
	return nets
}

// ValidateURL rejects URLs that are unsafe to fetch. Only the https
// scheme is accepted; localhost names, *.local and *.internal domains,
// and literal private addresses are refused. Hostnames that resolve to
// private addresses are caught later, at dial time.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return errors.New("only HTTPS URLs are allowed")
	}
	return validateHost(parsed.Hostname())
}

func validateHost(host string) error {
	lower := strings.ToLower(host)
	switch lower {
	case "localhost", "127.0.0.1", "::1":
		return errors.New("localhost URLs are not allowed")
	}
	if strings.HasSuffix(lower, ".local") || strings.HasSuffix(lower, ".internal") {
		return errors.New("local domain URLs are not allowed")
	}
	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return errors.New("private IP addresses are not allowed")
	}
	return nil
}

// IsPrivateIP reports whether ip falls in a loopback, private,
// link-local, or otherwise reserved range. IPv4-mapped IPv6 addresses
// are unwrapped and judged as IPv4.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if v4 := ip.To4(); v4 != nil && (v4.IsLoopback() || v4.IsPrivate() || v4.IsLinkLocalUnicast()) {
		return true
	}
	for _, network := range reservedNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ExtractDomain returns the hostname portion of a URL, or an empty
// string when the URL does not parse.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
