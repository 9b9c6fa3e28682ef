package feed

import (
	"errors"
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	v := int64(1700000000)
	c := &Cursor{Fingerprint: "abc", LastID: oid(7).Hex(), IntVal: &v, Shown: 18}

	token := c.Token()
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := DecodeCursor(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fingerprint != c.Fingerprint || got.LastID != c.LastID {
		t.Errorf("decoded %+v, want %+v", got, c)
	}
	if got.IntVal == nil || *got.IntVal != v {
		t.Errorf("IntVal = %v, want %d", got.IntVal, v)
	}
	if got.Shown != 18 {
		t.Errorf("Shown = %d, want 18", got.Shown)
	}
}

func TestCursorStringValue(t *testing.T) {
	s := "banana meme"
	c := &Cursor{Fingerprint: "f", LastID: oid(1).Hex(), StrVal: &s}

	got, err := DecodeCursor(c.Token())
	if err != nil {
		t.Fatal(err)
	}
	if got.StrVal == nil || *got.StrVal != s {
		t.Errorf("StrVal = %v, want %q", got.StrVal, s)
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	if err != nil || c != nil {
		t.Errorf("empty token: cursor=%v err=%v, want nil/nil", c, err)
	}
}

func TestDecodeCursor_Malformed(t *testing.T) {
	for _, token := range []string{"%%%", "bm90LWpzb24", "e30"} { // garbage, "not-json", "{}"
		if _, err := DecodeCursor(token); !errors.Is(err, ErrBadCursor) {
			t.Errorf("token %q: err = %v, want ErrBadCursor", token, err)
		}
	}
}

func TestNilCursorToken(t *testing.T) {
	var c *Cursor
	if c.Token() != "" {
		t.Error("nil cursor should serialize to the empty token")
	}
}
