package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/logging"
)

const (
	// ServiceType is the mDNS service type contactform servers advertise
	ServiceType = "_contactform._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultInstanceName is used when an advertisement has no name
	DefaultInstanceName = "contactform"
)

// TXT record keys
const (
	TxtProfile = "profile"
	TxtPath    = "path"
	TxtVersion = "version"
)

// Scanner handles mDNS discovery of contactform servers
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for contactform servers until the timeout elapses or ctx is
// cancelled. Instances are returned sorted by name; an instance seen on
// several interfaces is reported once.
func (s *Scanner) Scan(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu    sync.Mutex
		found = make(map[string]*Instance)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				instance := parseServiceEntry(entry)
				if instance == nil {
					continue
				}
				logging.Debug("Discovered contactform server",
					zap.String("instance", instance.Name),
					zap.String("url", instance.URL()),
				)
				mu.Lock()
				if _, seen := found[instance.Name]; !seen {
					found[instance.Name] = instance
				}
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	instances := make([]*Instance, 0, len(found))
	for _, instance := range found {
		instances = append(instances, instance)
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances, nil
}

// parseServiceEntry converts a zeroconf service entry to an Instance.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Instance{
		Name:         unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance removes the DNS escaping zeroconf leaves on instance names
func unescapeInstance(name string) string {
	return strings.ReplaceAll(name, `\ `, " ")
}

// Advertisement describes a running form server
type Advertisement struct {
	Instance string
	Port     int
	Profile  string
	Path     string
	Version  string
}

func (a Advertisement) txt() []string {
	records := []string{TxtProfile + "=" + a.Profile, TxtPath + "=" + a.Path}
	if a.Version != "" {
		records = append(records, TxtVersion+"="+a.Version)
	}
	return records
}

// Advertiser keeps an mDNS registration alive until Shutdown
type Advertiser struct {
	server *zeroconf.Server
	once   sync.Once
}

// Advertise registers the form server on all multicast interfaces
func Advertise(a Advertisement) (*Advertiser, error) {
	if a.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d", a.Port)
	}
	if a.Instance == "" {
		a.Instance = DefaultInstanceName
	}
	if a.Path == "" {
		a.Path = "/"
	}

	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.txt(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising form server",
		zap.String("instance", a.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port),
		zap.String("profile", a.Profile),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the registration. Safe to call more than once.
func (a *Advertiser) Shutdown() {
	a.once.Do(func() {
		a.server.Shutdown()
		logging.Debug("mDNS advertisement withdrawn")
	})
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Instance, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
