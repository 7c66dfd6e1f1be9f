package playback

import (
	"errors"
	"net/url"
	"sync"
)

// Container identifies the element a widget instance is mounted into.
type Container string

// Widget is one live instance of the third-party embed player.
type Widget interface {
	LoadVideoByID(videoID string) error
	Destroy()
}

// Factory constructs a widget bound to a container and starts playing
// videoID. onEnded must not be invoked synchronously from inside the factory
// or from LoadVideoByID.
type Factory func(c Container, videoID string, onEnded func()) (Widget, error)

var ErrWidgetDestroyed = errors.New("widget destroyed")

const embedBase = "https://www.youtube.com/embed/"

// EmbedURL is the autoplaying iframe source for a video.
func EmbedURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	q := url.Values{}
	q.Set("autoplay", "1")
	q.Set("rel", "0")
	q.Set("enablejsapi", "1")
	return embedBase + url.PathEscape(videoID) + "?" + q.Encode()
}

// RemoteWidget mirrors an iframe player living in a browser. The browser
// polls the current video and reports the ended event back over HTTP.
type RemoteWidget struct {
	mu        sync.Mutex
	container Container
	videoID   string
	onEnded   func()
	loads     int
	destroyed bool
}

// NewRemoteWidget is a Factory.
func NewRemoteWidget(c Container, videoID string, onEnded func()) (Widget, error) {
	if videoID == "" {
		return nil, errors.New("create widget: empty video id")
	}
	return &RemoteWidget{container: c, videoID: videoID, onEnded: onEnded}, nil
}

func (w *RemoteWidget) LoadVideoByID(videoID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWidgetDestroyed
	}
	w.videoID = videoID
	w.loads++
	return nil
}

func (w *RemoteWidget) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
}

// Ended delivers the browser's "state changed to ended" event.
func (w *RemoteWidget) Ended() {
	w.mu.Lock()
	cb := w.onEnded
	destroyed := w.destroyed
	w.mu.Unlock()

	if destroyed || cb == nil {
		return
	}
	cb()
}

func (w *RemoteWidget) VideoID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.videoID
}

// Loads is the number of in-place loads since construction.
func (w *RemoteWidget) Loads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loads
}

func (w *RemoteWidget) Container() Container {
	return w.container
}
