package browser

import (
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
)

// idle is reached once no request has been in flight for this long.
const networkQuietPeriod = time.Millisecond * 500

// networkTracker counts in flight requests of a tab from its network
// events. events arrive on the chromedp event goroutine.
type networkTracker struct {
	mu           sync.Mutex
	inflight     map[network.RequestID]struct{}
	lastActivity time.Time
}

func newNetworkTracker() *networkTracker {
	return &networkTracker{
		inflight:     map[network.RequestID]struct{}{},
		lastActivity: time.Now(),
	}
}

func (n *networkTracker) listen(ev any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		n.inflight[ev.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(n.inflight, ev.RequestID)
	case *network.EventLoadingFailed:
		delete(n.inflight, ev.RequestID)
	default:
		return
	}
	n.lastActivity = time.Now()
}

// touch marks activity without a request, used right after an action that
// may start a navigation.
func (n *networkTracker) touch() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastActivity = time.Now()
}

func (n *networkTracker) idle(now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inflight) == 0 && now.Sub(n.lastActivity) >= networkQuietPeriod
}
