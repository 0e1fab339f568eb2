// Package wifiqr builds the WIFI: join strings embedded in scannable
// credential images and invokes the external image converter.
package wifiqr

import (
	"fmt"
	"strings"
)

// escapeSet lists the characters that must be backslash-escaped inside a
// WIFI: payload. Backslash is processed first to avoid double-escaping.
const escapeSet = `;,":`

// Escape backslash-escapes the special characters in a join-string field.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	for _, c := range escapeSet {
		s = strings.ReplaceAll(s, string(c), `\`+string(c))
	}
	return s
}

// Unescape reverses Escape, recovering the original field value.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinString builds the standard WPA join payload:
// WIFI:T:WPA;S:<ssid>;P:<password>;;
func JoinString(ssid, password string) string {
	return fmt.Sprintf("WIFI:T:WPA;S:%s;P:%s;;", Escape(ssid), Escape(password))
}

// ParseJoinString decodes a WIFI: payload back into its SSID and password.
// It exists so the encoding can be verified end to end; readers of the
// published image never need it.
func ParseJoinString(payload string) (ssid, password string, err error) {
	const prefix = "WIFI:"
	if !strings.HasPrefix(payload, prefix) {
		return "", "", fmt.Errorf("not a WIFI payload: %q", payload)
	}
	body := strings.TrimPrefix(payload, prefix)

	for _, field := range splitUnescaped(body, ';') {
		switch {
		case strings.HasPrefix(field, "S:"):
			ssid = Unescape(field[2:])
		case strings.HasPrefix(field, "P:"):
			password = Unescape(field[2:])
		}
	}
	if ssid == "" {
		return "", "", fmt.Errorf("payload missing SSID: %q", payload)
	}
	return ssid, password, nil
}

// splitUnescaped splits on sep, honoring backslash escapes.
func splitUnescaped(s string, sep rune) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			cur.WriteRune('\\')
			cur.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == sep {
			fields = append(fields, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if escaped {
		cur.WriteRune('\\')
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
