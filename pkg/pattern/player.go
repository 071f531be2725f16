package pattern

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Player emits pattern frames as TCode lines to a sink.
type Player struct {
	pattern *Pattern
	w       io.Writer
}

// NewPlayer returns a player writing frames of p to w.
func NewPlayer(p *Pattern, w io.Writer) *Player {
	return &Player{pattern: p, w: w}
}

// Run writes frames until ctx is done or the sink fails. The first frame
// goes out immediately so the axes move before the first interval elapses.
func (pl *Player) Run(ctx context.Context) error {
	start := time.Now()

	if err := pl.frame(0); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(pl.pattern.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := pl.frame(now.Sub(start)); err != nil {
				return err
			}
		}
	}
}

func (pl *Player) frame(elapsed time.Duration) error {
	if _, err := io.WriteString(pl.w, pl.pattern.Line(elapsed)+"\n"); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
