package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name        string
		entry       *zeroconf.ServiceEntry
		wantNil     bool
		wantName    string
		wantIP      string
		wantPort    int
		wantProfile string
		wantPath    string
	}{
		{
			name: "server with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: `contactform\ on\ studio`},
				HostName:      "studio.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"profile=classic", "path=/forms/classic", "version=1.0.0"},
			},
			wantName:    "contactform on studio",
			wantIP:      "192.168.4.16",
			wantPort:    8080,
			wantProfile: "classic",
			wantPath:    "/forms/classic",
		},
		{
			name: "no TXT records",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "contactform"},
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantName: "contactform",
			wantIP:   "10.0.0.5",
			wantPort: 9000,
			wantPath: "/",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "six"},
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
				Text:          []string{"profile=async"},
			},
			wantName:    "six",
			wantIP:      "fe80::1",
			wantPort:    8080,
			wantProfile: "async",
			wantPath:    "/",
		},
		{
			name: "both families prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantName: "dual",
			wantIP:   "192.168.1.50",
			wantPort: 8080,
			wantPath: "/",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				Port: 8080,
			},
			wantNil: true,
		},
		{
			name: "no port",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if instance != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", instance)
				}
				return
			}
			if instance == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil instance")
			}

			if instance.Name != tt.wantName {
				t.Errorf("instance.Name = %q, want %q", instance.Name, tt.wantName)
			}
			if instance.IP != tt.wantIP {
				t.Errorf("instance.IP = %v, want %v", instance.IP, tt.wantIP)
			}
			if instance.Port != tt.wantPort {
				t.Errorf("instance.Port = %v, want %v", instance.Port, tt.wantPort)
			}
			if instance.Profile() != tt.wantProfile {
				t.Errorf("instance.Profile() = %v, want %v", instance.Profile(), tt.wantProfile)
			}
			if instance.Path() != tt.wantPath {
				t.Errorf("instance.Path() = %v, want %v", instance.Path(), tt.wantPath)
			}
			if time.Since(instance.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is too old: %v", instance.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_KeyWithoutValue(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		Port:     8080,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
		Text:     []string{"flag", "path=/a=b"},
	}

	instance := parseServiceEntry(entry)
	if instance == nil {
		t.Fatal("parseServiceEntry() = nil")
	}
	if v, ok := instance.Metadata["flag"]; !ok || v != "" {
		t.Errorf("Metadata[flag] = %q, %v; want empty, true", v, ok)
	}
	if got := instance.Path(); got != "/a=b" {
		t.Errorf("Path() = %q, want /a=b", got)
	}
}

func TestAdvertisement_txt(t *testing.T) {
	a := Advertisement{Profile: "async", Path: "/forms/async", Version: "1.0.0"}
	got := a.txt()
	want := []string{"profile=async", "path=/forms/async", "version=1.0.0"}
	if len(got) != len(want) {
		t.Fatalf("txt() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("txt()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	a.Version = ""
	if got := a.txt(); len(got) != 2 {
		t.Errorf("txt() without version = %v, want 2 records", got)
	}
}

func TestAdvertise_InvalidPort(t *testing.T) {
	if _, err := Advertise(Advertisement{Port: 0}); err == nil {
		t.Error("Advertise() with port 0 should fail")
	}
}

func TestNewScanner(t *testing.T) {
	if s := NewScanner(); s.Timeout != DefaultScanTimeout {
		t.Errorf("NewScanner().Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}
