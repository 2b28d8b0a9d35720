package browser

import (
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/require"
)

func TestNetworkTracker(t *testing.T) {
	n := newNetworkTracker()
	start := time.Now()
	require.False(t, n.idle(start), "activity just happened")
	require.True(t, n.idle(start.Add(networkQuietPeriod*2)))

	n.listen(&network.EventRequestWillBeSent{RequestID: "1"})
	n.listen(&network.EventRequestWillBeSent{RequestID: "2"})
	require.False(t, n.idle(time.Now().Add(time.Hour)), "requests in flight")

	n.listen(&network.EventLoadingFinished{RequestID: "1"})
	n.listen(&network.EventLoadingFailed{RequestID: "2"})
	require.False(t, n.idle(time.Now()))
	require.True(t, n.idle(time.Now().Add(networkQuietPeriod)))

	// a redirect reuses the request id
	n.listen(&network.EventRequestWillBeSent{RequestID: "3"})
	n.listen(&network.EventRequestWillBeSent{RequestID: "3"})
	n.listen(&network.EventLoadingFinished{RequestID: "3"})
	require.True(t, n.idle(time.Now().Add(networkQuietPeriod)))
}
