package pipeline

import "github.com/pterm/pterm"

// progressBar wraps pterm so phase code can increment
// unconditionally; when progress display is off (or the bar fails to
// start) the methods are no-ops.
type progressBar struct {
	bar *pterm.ProgressbarPrinter
}

func (p *Pipeline) progress(title string, total int) *progressBar {
	if !p.opts.ShowProgress || total == 0 {
		return &progressBar{}
	}
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(title).Start()
	if err != nil {
		return &progressBar{}
	}
	return &progressBar{bar: bar}
}

func (b *progressBar) increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b *progressBar) stop() {
	if b.bar != nil {
		_, _ = b.bar.Stop()
	}
}
