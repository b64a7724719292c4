package envfile

import (
	"encoding/json"
	"testing"
)

func TestDecodePort(t *testing.T) {
	const def = 22
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"absent", "", def},
		{"empty string", `""`, def},
		{"numeric string", `"2222"`, 2222},
		{"signed string", `"+2022"`, 2022},
		{"non-numeric string", `"ssh"`, def},
		{"padded string", `" 2222"`, def},
		{"float string", `"22.5"`, def},
		{"integer", `2200`, 2200},
		{"zero", `0`, 0},
		{"negative", `-1`, -1},
		{"integral float literal", `8080.0`, def},
		{"fraction", `22.5`, def},
		{"exponent", `1e3`, def},
		{"out of int64 range", `9223372036854775808`, def},
		{"true", `true`, def},
		{"false", `false`, def},
		{"null", `null`, def},
		{"array", `[22]`, def},
		{"object", `{"value":22}`, def},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var raw json.RawMessage
			if tc.raw != "" {
				raw = json.RawMessage(tc.raw)
			}
			if got := DecodePort(raw, def); got != tc.want {
				t.Fatalf("DecodePort(%s) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestDecodePort_UsesGivenDefault(t *testing.T) {
	if got := DecodePort(nil, 2022); got != 2022 {
		t.Fatalf("expected injected default, got %d", got)
	}
}
