package firebase

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
)

var (
	errStreamCancelled = errors.New("stream cancelled by server")
	errAuthRevoked     = errors.New("stream auth revoked")
)

type streamEvent struct {
	Name string
	Data string
}

type streamPayload struct {
	Path string `json:"path"`
	Data any    `json:"data"`
}

// Subscribe implements document.Subscriber. It keeps an EventSource
// stream on the root open, applies each put/patch delta to a local copy
// and hands the full tree to onChange. Dropped connections are retried
// after the configured delay; a revoked credential ends the subscription.
func (c *Client) Subscribe(ctx context.Context, onChange func(tree map[string]any)) error {
	for {
		err := c.stream(ctx, onChange)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, errAuthRevoked) {
			return fmt.Errorf("%w: %v", document.ErrStoreUnavailable, err)
		}
		slog.Warn("Document stream interrupted, reconnecting", "error", err, "retry_in", c.retryDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) stream(ctx context.Context, onChange func(tree map[string]any)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL(""), nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: open stream: %v", document.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: open stream: status %d: %s",
			document.ErrStoreUnavailable, resp.StatusCode, errorMessage(body))
	}

	var tree map[string]any
	return readEvents(resp.Body, func(ev streamEvent) error {
		switch ev.Name {
		case "put", "patch":
			var p streamPayload
			if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
				return fmt.Errorf("decode %s event: %w", ev.Name, err)
			}
			tree = applyEvent(tree, ev.Name, p)
			onChange(jsontree.CloneObject(tree))
		case "keep-alive":
		case "cancel":
			return errStreamCancelled
		case "auth_revoked":
			return errAuthRevoked
		}
		return nil
	})
}

// applyEvent folds a single stream event into tree.
func applyEvent(tree map[string]any, name string, p streamPayload) map[string]any {
	if name == "patch" {
		updates, ok := p.Data.(map[string]any)
		if !ok {
			return tree
		}
		return jsontree.Update(tree, p.Path, updates)
	}
	return jsontree.Set(tree, p.Path, p.Data)
}

// readEvents parses a text/event-stream body, calling fn once per event.
func readEvents(r io.Reader, fn func(streamEvent) error) error {
	br := bufio.NewReader(r)
	var ev streamEvent
	var data []string

	for {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if ev.Name != "" || len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if err := fn(ev); err != nil {
					return err
				}
			}
			ev, data = streamEvent{}, nil
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
}
