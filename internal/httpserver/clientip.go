package httpserver

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
)

// IPExtractor picks how c.RealIP resolves the client address. With no
// trusted proxies the socket peer is used and forwarding headers are ignored;
// otherwise X-Forwarded-For is honoured only when sent by one of the CIDRs.
func IPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
