package feed

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

var ErrBadCursor = errors.New("feed: malformed cursor token")

// Cursor points just after the last raw record of a fetched page. The sort
// value plus document id form a compound tiebreak so records sharing a sort
// value are neither repeated nor skipped. The fingerprint ties the cursor
// to the configuration it was produced under.
type Cursor struct {
	Fingerprint string  `json:"f"`
	LastID      string  `json:"id"`
	IntVal      *int64  `json:"n,omitempty"`
	StrVal      *string `json:"s,omitempty"`

	// Shown counts the visible items delivered up to this cursor, so a
	// resumed session can keep the ad slot rhythm continuous.
	Shown int `json:"k,omitempty"`
}

// Token serializes the cursor into an opaque URL-safe string.
func (c *Cursor) Token() string {
	if c == nil {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Token. An empty token decodes to
// a nil cursor (start from the first page).
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrBadCursor
	}
	if c.LastID == "" {
		return nil, ErrBadCursor
	}
	return &c, nil
}
