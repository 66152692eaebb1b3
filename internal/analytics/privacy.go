// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"time"
)

// generateRandomSalt generates a random salt for hashing.
func generateRandomSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}

// anonymizeIP masks the IP address.
// For IPv4: zeros the last octet (e.g., 192.168.1.100 -> 192.168.1.0)
// For IPv6: zeros the last 80 bits
func anonymizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if ipv4 := parsed.To4(); ipv4 != nil {
		ipv4[3] = 0
		return ipv4.String()
	}
	ipv6 := parsed.To16()
	for i := 6; i < 16; i++ {
		ipv6[i] = 0
	}
	return ipv6.String()
}

// visitorHash identifies a visitor for one day without storing the address.
func visitorHash(salt, day, ip, userAgent string) string {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(day))
	h.Write([]byte(anonymizeIP(ip)))
	h.Write([]byte(userAgent))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
