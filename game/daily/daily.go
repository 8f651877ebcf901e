package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/wricardo/shape-connector/game/engine"
)

// DateLayout is the layout of date keys
const DateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key. An empty key means today.
func ParseDate(key string) (time.Time, error) {
	if key == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", key)
	}
	return t, nil
}

// Seed returns a deterministic seed for a date and difficulty using
// HMAC(salt, YYYY-MM-DD|difficulty).
func Seed(date time.Time, salt string, mode engine.Difficulty) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	h.Write([]byte("|"))
	h.Write([]byte(mode))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// Game generates the daily game for a difficulty
func Game(date time.Time, salt string, mode engine.Difficulty) (*engine.Game, error) {
	settings := engine.GetGameSettings(mode)
	gen := engine.NewGenerator(&engine.GeneratorOptions{
		Source: engine.NewSource(Seed(date, salt, mode)),
	})
	return gen.Game(settings.BoardSize, settings.PathSize)
}
