// Package discovery advertises and finds contactform servers on the local
// network over multicast DNS.
//
// A server started with --advertise registers a "_contactform._tcp"
// service. Its TXT records carry the served profile, the form path and the
// program version:
//
//	profile=classic
//	path=/forms/classic
//	version=1.0.0
//
// # Advertising
//
//	adv, err := discovery.Advertise(discovery.Advertisement{
//	    Instance: "contactform on studio",
//	    Port:     8080,
//	    Profile:  "classic",
//	    Path:     "/forms/classic",
//	})
//	if err != nil {
//	    return err
//	}
//	defer adv.Shutdown()
//
// # Browsing
//
//	instances, err := discovery.Scan(ctx, 5*time.Second)
//	for _, i := range instances {
//	    fmt.Println(i.Name, i.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
