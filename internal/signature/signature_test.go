package signature

import (
	"strings"
	"testing"

	"github.com/genflow/prbridge/internal/fault"
)

func TestVerify_RoundTrip(t *testing.T) {
	body := []byte(`{"action":"opened","number":1}`)
	secret := "test-secret"

	sig := Compute(body, secret)
	if !strings.HasPrefix(sig, Prefix) {
		t.Fatalf("Compute() = %q, want %s prefix", sig, Prefix)
	}

	if err := Verify(body, sig, secret); err != nil {
		t.Errorf("Verify() error = %v, want nil for own signature", err)
	}
}

func TestVerify_SingleByteFlip(t *testing.T) {
	body := []byte(`{"action":"opened","number":1}`)
	secret := "test-secret"
	sig := Compute(body, secret)

	tampered := append([]byte(nil), body...)
	tampered[0] ^= 0x01

	if err := Verify(tampered, sig, secret); err == nil {
		t.Error("Verify() expected error for tampered body")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	body := []byte(`{"action":"opened"}`)
	sig := Compute(body, "secret-a")

	if err := Verify(body, sig, "secret-b"); err == nil {
		t.Error("Verify() expected error for wrong secret")
	}
}

func TestVerify_MalformedHeader(t *testing.T) {
	body := []byte(`{}`)

	for _, header := range []string{"", "sha1=abc", "sha256=", "sha256=zzzz", "garbage"} {
		err := Verify(body, header, "secret")
		if err == nil {
			t.Errorf("Verify(header=%q) expected error", header)
			continue
		}
		f := fault.From(err)
		if f.Kind != fault.KindSignature {
			t.Errorf("Verify(header=%q) kind = %v, want KindSignature", header, f.Kind)
		}
		if strings.Contains(f.Reason, "sha256=") && header != "sha256=" {
			t.Errorf("Verify(header=%q) reason leaks digest material: %q", header, f.Reason)
		}
	}
}

func TestPolicy_MissingSignatureRequired(t *testing.T) {
	p := Policy{Secret: "secret", Permissive: false}

	err := p.Check([]byte(`{}`), "")
	if err == nil {
		t.Fatal("Check() expected error for missing signature")
	}
	f := fault.From(err)
	if f.Kind != fault.KindSignature {
		t.Errorf("Kind = %v, want KindSignature", f.Kind)
	}
	if !strings.Contains(f.Reason, "required") {
		t.Errorf("Reason = %q, want the missing-header case named distinctly", f.Reason)
	}
}

func TestPolicy_MissingSignaturePermissive(t *testing.T) {
	p := Policy{Secret: "secret", Permissive: true}

	if err := p.Check([]byte(`{}`), ""); err != nil {
		t.Errorf("Check() error = %v, want nil in permissive mode", err)
	}
}

func TestPolicy_PresentSignatureVerifiedEvenWhenPermissive(t *testing.T) {
	p := Policy{Secret: "secret", Permissive: true}

	if err := p.Check([]byte(`{}`), "sha256=deadbeef"); err == nil {
		t.Error("Check() expected error: a provided signature is always verified")
	}
}

func TestPolicy_ValidSignature(t *testing.T) {
	body := []byte(`{"action":"closed"}`)
	p := Policy{Secret: "secret", Permissive: false}

	if err := p.Check(body, Compute(body, "secret")); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}
