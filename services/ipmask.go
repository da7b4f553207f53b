package services

import (
	"net/netip"
	"strconv"
	"strings"
)

const maskToken = "***"

// MaskIP hides part of an address before it is shown in the admin activity feed.
// IPv4 loses its third octet, IPv6 keeps only the routing prefix, and anything
// unparsable is hidden entirely.
func MaskIP(raw string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return maskToken
	}
	addr = addr.Unmap()

	if addr.Is4() {
		octets := addr.As4()
		parts := []string{strconv.Itoa(int(octets[0])), strconv.Itoa(int(octets[1])), maskToken, strconv.Itoa(int(octets[3]))}
		return strings.Join(parts, ".")
	}

	hextets := strings.Split(addr.WithZone("").StringExpanded(), ":")
	for i := range hextets {
		hextets[i] = strings.TrimLeft(hextets[i], "0")
		if hextets[i] == "" {
			hextets[i] = "0"
		}
	}
	return strings.Join(hextets[:4], ":") + ":****"
}
