package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Instance is a contactform server found on the local network
type Instance struct {
	// Name is the mDNS instance name (e.g. "contactform on studio")
	Name string

	// Hostname is the advertised host (e.g. "studio.local.")
	Hostname string

	// IP is the first IPv4 address, or the first IPv6 one when no IPv4 is advertised
	IP string

	Port int

	// Metadata holds the TXT records: profile, path and version
	Metadata map[string]string

	DiscoveredAt time.Time
}

// Profile returns the form profile served at Path
func (i *Instance) Profile() string {
	return i.GetMetadata(TxtProfile)
}

// Path returns the form path, "/" when the server did not advertise one
func (i *Instance) Path() string {
	if p := i.GetMetadata(TxtPath); p != "" {
		return p
	}
	return "/"
}

// Version returns the advertised server version
func (i *Instance) Version() string {
	return i.GetMetadata(TxtVersion)
}

// String returns a human-readable representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, i.Profile(), i.URL())
}

// URL returns the address of the advertised form
func (i *Instance) URL() string {
	return "http://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port)) + i.Path()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}
