package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageOptionsOffset(t *testing.T) {
	cases := []struct {
		name string
		in   PageOptions
		want int
	}{
		{"third page", PageOptions{Page: 3, Limit: 10}, 20},
		{"first page", PageOptions{Page: 1, Limit: 10}, 0},
		{"page zero", PageOptions{Page: 0, Limit: 10}, 0},
		{"negative page", PageOptions{Page: -4, Limit: 10}, 0},
		{"no limit", PageOptions{Page: 5}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Offset())
		})
	}
}

func TestPageOptionsNormalize(t *testing.T) {
	p := PageOptions{Page: -1, Limit: 0}.Normalize(DefaultPageLimit)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)

	p = PageOptions{Page: 2, Limit: 25}.Normalize(DefaultPageLimit)
	assert.Equal(t, PageOptions{Page: 2, Limit: 25}, p)
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := Token{Expiration: now.Add(10 * time.Minute)}

	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(10*time.Minute)))
	assert.True(t, tok.Expired(now.Add(11*time.Minute)))
}

func TestPublicationActiveBoundary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Second)
	earlier := now.Add(-time.Second)

	assert.True(t, Publication{}.Active(now), "no due date is always active")
	assert.True(t, Publication{DueDate: &later}.Active(now))
	assert.False(t, Publication{DueDate: &now}.Active(now), "due date equal to now is excluded")
	assert.False(t, Publication{DueDate: &earlier}.Active(now))
}
