package eventbridge

import (
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/nodemachine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_KeepsFirstOutcome(t *testing.T) {
	ch := make(chan error, 1)
	first := errors.New("connect_error")

	done := make(chan struct{})
	go func() {
		notify(ch, first)
		notify(ch, nil)
		notify(ch, errors.New("late"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked on a full channel")
	}
	assert.Same(t, first, <-ch)
	assert.Empty(t, ch)
}

func TestNotify_NobodyListening(t *testing.T) {
	ch := make(chan error, 1)
	notify(ch, nil)
	notify(ch, nil)
	require.Len(t, ch, 1)
}

func TestDial_RejectsBadURLs(t *testing.T) {
	ctx, _ := testutil.Context(t)
	testCases := []struct {
		name string
		url  string
	}{
		{name: "relative", url: "/socket.io"},
		{name: "no scheme", url: "localhost:3000"},
		{name: "unparseable", url: "http://[::1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Dial(ctx, DialOptions{URL: tc.url})
			assert.Error(t, err)
		})
	}
}
