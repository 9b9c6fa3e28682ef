package handlers

import (
	"os"
	"testing"
)

func TestEnsureVAPIDKeys_GeneratesWhenUnset(t *testing.T) {
	t.Setenv("VAPID_PUBLIC_KEY", "")
	t.Setenv("VAPID_PRIVATE_KEY", "")

	key := EnsureVAPIDKeys()
	if key == "" {
		t.Fatal("no private key generated")
	}
	if os.Getenv("VAPID_PRIVATE_KEY") != key {
		t.Error("returned key differs from environment")
	}
	if os.Getenv("VAPID_PUBLIC_KEY") == "" {
		t.Error("no public key in environment")
	}
}

func TestEnsureVAPIDKeys_KeepsConfiguredPair(t *testing.T) {
	t.Setenv("VAPID_PUBLIC_KEY", "configured-public")
	t.Setenv("VAPID_PRIVATE_KEY", "configured-private")

	if got := EnsureVAPIDKeys(); got != "configured-private" {
		t.Errorf("key = %q, want the configured one", got)
	}
	if os.Getenv("VAPID_PUBLIC_KEY") != "configured-public" {
		t.Error("configured public key was replaced")
	}
}
