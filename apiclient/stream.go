package apiclient

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	apitypes "github.com/vmbx/vmbx/apitypes"
)

var errStreamClosed = errors.New("stream closed")

// ImageStream is a subscription to the node's raw image stream.
type ImageStream struct {
	SubscriberID string

	conn net.Conn
	r    *bufio.Reader

	mu      sync.Mutex
	closed  bool
	reading bool
	stop    func() bool
}

// Subscribe opens the image_raw stream. The subscription stays alive until
// Close is called or ctx is done.
func (c *Client) Subscribe(ctx context.Context) (*ImageStream, error) {
	sc, line, err := c.transport.Open(ctx, "image_raw", nil, nil)
	if err != nil {
		return nil, err
	}
	ack, err := parse[apitypes.SubscribeResponse](line)
	if err != nil {
		sc.Close()
		return nil, err
	}

	s := &ImageStream{SubscriberID: ack.SubscriberID, conn: sc.Conn, r: sc.R}
	s.mu.Lock()
	s.stop = context.AfterFunc(ctx, func() { _ = s.Close() })
	s.mu.Unlock()
	return s, nil
}

// Next blocks until the next image arrives.
func (s *ImageStream) Next() (*apitypes.Image, error) {
	if s.isClosed() {
		return nil, errStreamClosed
	}
	img, err := apitypes.ReadImage(s.r)
	if err != nil && s.isClosed() {
		return nil, errStreamClosed
	}
	return img, err
}

// Images reads the stream in a background goroutine. Both channels are
// closed when reading ends; the error channel carries the reason.
func (s *ImageStream) Images(ctx context.Context, chSize int) (<-chan *apitypes.Image, <-chan error) {
	s.mu.Lock()
	if s.reading {
		s.mu.Unlock()
		panic("Images called twice on the same stream")
	}
	s.reading = true
	s.mu.Unlock()

	imgCh := make(chan *apitypes.Image, chSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(imgCh)
		defer close(errCh)

		for {
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}
			img, err := s.Next()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case imgCh <- img:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return imgCh, errCh
}

// SetReadDeadline sets the read deadline for the underlying connection.
func (s *ImageStream) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

func (s *ImageStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close ends the subscription. The server drops the subscriber as soon as it
// sees the connection go away.
func (s *ImageStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	stop := s.stop
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	return s.conn.Close()
}
