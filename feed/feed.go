// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package feed delivers input from external sources to a jpush.Parser.
//
// The parser itself performs no I/O. The functions in this package read
// chunks from a source and pass them to the parser in order, then call Finish
// when the source is exhausted.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/creachadair/jpush"
	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"
)

// DefaultChunkSize is the read size used by Copy when none is given.
const DefaultChunkSize = 32 << 10

var log = commonlog.GetLogger("jpush.feed")

// Copy reads chunks of at most size bytes from r and feeds them to p until r
// reports io.EOF, then calls p.Finish. If size ≤ 0, DefaultChunkSize is used.
// Copy returns the number of bytes delivered to p.
//
// The context is checked between chunks; if it ends before r is exhausted,
// Copy returns its error without calling Finish.
func Copy(ctx context.Context, p *jpush.Parser, r io.Reader, size int) (int64, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return total, ferr
			}
			log.Debugf("fed %d bytes (total %d, depth %d)", n, total, p.Depth())
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return total, fmt.Errorf("read input: %w", err)
		}
	}
	log.Debugf("end of input after %d bytes", total)
	return total, p.Finish()
}

// WebSocket dials the WebSocket server at url and feeds the payload of each
// message it receives to p as one chunk. When the server closes the
// connection normally, WebSocket calls p.Finish.
//
// If ctx ends while reading, the connection is closed and WebSocket returns
// the error from the context.
func WebSocket(ctx context.Context, p *jpush.Parser, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %q: %w", url, err)
	}
	log.Infof("connected to %s", url)

	// Interrupt a blocked read if the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	var nmsg int
	for {
		_, data, err := conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Infof("connection closed after %d messages", nmsg)
			return p.Finish()
		} else if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			return fmt.Errorf("read message: %w", err)
		}
		nmsg++
		log.Debugf("message %d: %d bytes", nmsg, len(data))
		if err := p.Feed(data); err != nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, truncate(err.Error())),
				deadline(ctx))
			return err
		}
	}
}

// ErrInvalidChunkSize is reported by Chunks for a non-positive size.
var ErrInvalidChunkSize = errors.New("invalid chunk size")

// Chunks feeds data to p in pieces of at most size bytes, then calls Finish.
// It is useful for testing that the result of parsing does not depend on how
// the input is divided.
func Chunks(p *jpush.Parser, data []byte, size int) error {
	if size <= 0 {
		return ErrInvalidChunkSize
	}
	for len(data) > 0 {
		n := min(size, len(data))
		if err := p.Feed(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return p.Finish()
}

// truncate limits s to fit in the payload of a close frame.
func truncate(s string) string {
	const maxReason = 123 // 125-byte control payload less the 2-byte code
	if len(s) > maxReason {
		return s[:maxReason]
	}
	return s
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(time.Second)
}
