package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValue(t *testing.T) {
	if got := sanitizeValue("password", "hunter2"); got != redacted {
		t.Fatalf("password: want=%q got=%v", redacted, got)
	}
	if got := sanitizeValue("auth_token", "abc"); got != redacted {
		t.Fatalf("token: want=%q got=%v", redacted, got)
	}
	got, _ := sanitizeValue("user_id", "0b6f2c1e-6a51-4d8e-9d5c-1d0f4d1e7c11").(string)
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("user_id: want hash prefix got=%q", got)
	}
	if got := sanitizeValue("milestone_id", "m-1"); got != "m-1" {
		t.Fatalf("milestone_id: want passthrough got=%v", got)
	}
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("header", jwtish); got != redacted {
		t.Fatalf("jwt value: want=%q got=%v", redacted, got)
	}
}

func TestSanitizeNestedMap(t *testing.T) {
	in := map[string]interface{}{"Email": "a@b.c", "stage_id": "s1"}
	out, ok := sanitizeValue("payload", in).(map[string]interface{})
	if !ok {
		t.Fatalf("want map output")
	}
	if out["Email"] != redacted {
		t.Fatalf("nested email: want=%q got=%v", redacted, out["Email"])
	}
	if out["stage_id"] != "s1" {
		t.Fatalf("nested stage_id: want=s1 got=%v", out["stage_id"])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("odd kvs: got=%v", out)
	}
}
