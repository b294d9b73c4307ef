package sysutil

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetLogLevel_AllVariants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"trace", zerolog.InfoLevel},
		{"disabled", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := SetLogLevel(tc.in); got != tc.want {
			t.Fatalf("SetLogLevel(%q) returned %v; want %v", tc.in, got, tc.want)
		}
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> global %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestConfigureLogging_JSONAndContextFallback(t *testing.T) {
	origLogger, origLevel, origCtx := log.Logger, zerolog.GlobalLevel(), zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
		zerolog.DefaultContextLogger = origCtx
	})

	var buf bytes.Buffer
	ConfigureLogging("warn", false, &buf)

	log.Info().Msg("dropped")
	// a context without a request logger falls back to the global one
	log.Ctx(context.Background()).Warn().Str("post_id", "7").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" || entry["post_id"] != "7" || entry["time"] == nil {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestConfigureLogging_Pretty(t *testing.T) {
	origLogger, origLevel, origCtx := log.Logger, zerolog.GlobalLevel(), zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
		zerolog.DefaultContextLogger = origCtx
	})

	var buf bytes.Buffer
	ConfigureLogging("info", true, &buf)
	log.Info().Msg("hello")
	if bytes.HasPrefix(buf.Bytes(), []byte("{")) || !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestIsTruthy(t *testing.T) {
	trues := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	falses := []string{"", "0", "false", "no", "off", "n", "  ", "random"}

	for _, v := range trues {
		if !IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = false; want true", v)
		}
	}
	for _, v := range falses {
		if IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = true; want false", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q; want \"\"", got)
	}
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(empties) = %q; want \"\"", got)
	}
	// untrimmed
	if got := FirstNonEmpty("   ", "  hello  ", "world"); got != "  hello  " {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "  hello  ")
	}
}

func TestGetenv_PrefersFirstName(t *testing.T) {
	t.Setenv("SOCIFI_TEST_NEW", "")
	t.Setenv("SOCIFI_TEST_OLD", "legacy")
	if got := Getenv("SOCIFI_TEST_NEW", "SOCIFI_TEST_OLD"); got != "legacy" {
		t.Fatalf("fallback = %q", got)
	}
	t.Setenv("SOCIFI_TEST_NEW", "current")
	if got := Getenv("SOCIFI_TEST_NEW", "SOCIFI_TEST_OLD"); got != "current" {
		t.Fatalf("preferred = %q", got)
	}
	if got := Getenv("SOCIFI_TEST_UNSET_A", "SOCIFI_TEST_UNSET_B"); got != "" {
		t.Fatalf("unset = %q", got)
	}
}
