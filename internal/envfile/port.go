package envfile

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// portKind is the declared JSON type of a server's "port" member.
type portKind int

const (
	portAbsent portKind = iota
	portString
	portNumber
	portOther // bool, null, array, object
)

func classifyPort(raw json.RawMessage) portKind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return portAbsent
	}
	switch c := raw[0]; {
	case c == '"':
		return portString
	case c == '-' || (c >= '0' && c <= '9'):
		return portNumber
	default:
		return portOther
	}
}

// DecodePort normalizes a raw "port" member. It never fails:
//
//	absent                      → def
//	"" or non-integer string    → def
//	"2222"                      → 2222
//	integral number (0 too)     → that number
//	8080.5, 1e3, out of range   → def
//	true, null, [...], {...}    → def
func DecodePort(raw json.RawMessage, def int) int {
	switch classifyPort(raw) {
	case portString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return def
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return def
		}
		return n
	case portNumber:
		n, err := json.Number(bytes.TrimSpace(raw)).Int64()
		if err != nil {
			return def
		}
		return int(n)
	default:
		return def
	}
}
