package watcher

import "time"

// A delay is a timeout that can be retriggered. Triggering it again while it
// is pending pushes the deadline back instead of starting a second timer.
type delay struct {
	timer    *time.Timer
	channel  <-chan time.Time
	deadline time.Time
}

// trigger arms the delay to fire after dt.
func (d *delay) trigger(dt time.Duration) {
	if d.channel != nil {
		d.deadline = time.Now().Add(dt)
		return
	}
	if d.timer == nil {
		d.timer = time.NewTimer(dt)
	} else {
		d.timer.Reset(dt)
	}
	d.channel = d.timer.C
	d.deadline = time.Time{}
}

// remaining returns how long to keep waiting after the channel fires,
// because the delay was retriggered in the meantime.
func (d *delay) remaining() time.Duration {
	if d.deadline.IsZero() {
		return 0
	}
	return time.Until(d.deadline)
}

func (d *delay) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}
