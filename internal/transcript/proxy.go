package transcript

import (
	"fmt"
	"math/rand/v2"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ProxyEndpoint is one HTTP relay from the pool.
type ProxyEndpoint struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Address returns host:port.
func (p ProxyEndpoint) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL returns the proxy URL including credentials.
func (p ProxyEndpoint) URL() *url.URL {
	u := &url.URL{Scheme: "http", Host: p.Address()}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// String never includes credentials, so endpoints are safe to log.
func (p ProxyEndpoint) String() string {
	return p.Address()
}

// ParseProxyList parses comma- or whitespace-separated entries of the form
// host:port or host:port:user:pass. Entries without credentials inherit
// defaultUser/defaultPass.
func ParseProxyList(raw, defaultUser, defaultPass string) ([]ProxyEndpoint, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	proxies := make([]ProxyEndpoint, 0, len(fields))
	for _, field := range fields {
		parts := strings.Split(field, ":")
		if len(parts) != 2 && len(parts) != 4 {
			return nil, fmt.Errorf("invalid proxy entry %q: want host:port or host:port:user:pass", field)
		}
		port, err := strconv.Atoi(parts[1])
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid proxy port in %q", field)
		}
		if parts[0] == "" {
			return nil, fmt.Errorf("invalid proxy entry %q: empty host", field)
		}

		p := ProxyEndpoint{Host: parts[0], Port: port, Username: defaultUser, Password: defaultPass}
		if len(parts) == 4 {
			p.Username, p.Password = parts[2], parts[3]
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// ProxyPool hands out proxies uniformly at random. A nil pool is empty.
type ProxyPool struct {
	proxies []ProxyEndpoint
	rnd     *lockedRand
}

// NewProxyPool creates a pool over proxies. rnd may be nil for a time-seeded
// source.
func NewProxyPool(proxies []ProxyEndpoint, rnd *rand.Rand) *ProxyPool {
	owned := make([]ProxyEndpoint, len(proxies))
	copy(owned, proxies)
	return &ProxyPool{proxies: owned, rnd: newLockedRand(rnd)}
}

// Len returns the number of proxies in the pool.
func (p *ProxyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Pick returns one proxy, or ErrNoProxies.
func (p *ProxyPool) Pick() (ProxyEndpoint, error) {
	if p.Len() == 0 {
		return ProxyEndpoint{}, ErrNoProxies
	}
	return p.proxies[p.rnd.IntN(len(p.proxies))], nil
}

// Endpoints returns a copy of the pool contents.
func (p *ProxyPool) Endpoints() []ProxyEndpoint {
	if p == nil {
		return nil
	}
	out := make([]ProxyEndpoint, len(p.proxies))
	copy(out, p.proxies)
	return out
}
