package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/vmunix/embedarr/internal/batch"
	"github.com/vmunix/embedarr/internal/events"
)

// followProgress draws a progress bar on w for the batch jobs published on
// bus for one catalog entry. The returned stop func waits until every
// event already published has been drawn.
func followProgress(bus *events.Bus, catalogID int64, w io.Writer) (stop func()) {
	ch, cancel := bus.SubscribeEntity(events.EntityCatalog, catalogID, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		var (
			bar *progressbar.ProgressBar
			op  batch.Op
		)
		for e := range ch {
			switch e := e.(type) {
			case *events.BatchStarted:
				op = e.Op
				bar = progressbar.NewOptions(e.Total,
					progressbar.OptionSetWriter(w),
					progressbar.OptionSetDescription(string(op)),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(30),
					progressbar.OptionClearOnFinish(),
				)
			case *events.BatchProgressed:
				if bar == nil {
					continue
				}
				if e.Failed > 0 {
					bar.Describe(fmt.Sprintf("%s (%d failed)", op, e.Failed))
				}
				_ = bar.Set(e.Current)
			case *events.BatchCompleted:
				if bar == nil {
					continue
				}
				_ = bar.Set(e.Succeeded + e.Failed)
				_ = bar.Finish()
				bar = nil
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
