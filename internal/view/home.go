package view

import (
	"context"
	"io"
)

// HomePage shows the hero, the featured collection copy and any pending
// flash message.
type HomePage struct {
	v     *Views
	Flash Resource[string]
}

// Home builds the landing page.
func (v *Views) Home() *HomePage {
	return &HomePage{v: v}
}

// Title implements Page.
func (p *HomePage) Title() string { return "home" }

// Load takes the flash message. A message is shown at most once and not
// after it expires.
func (p *HomePage) Load(ctx context.Context) {
	if p.v.deps.Flash == nil {
		p.Flash.Status = Loaded
		return
	}
	fetch(ctx, p.v.deps.Logger, "flash", &p.Flash, func(ctx context.Context) (string, error) {
		msg, _, err := p.v.deps.Flash.TakeFlash(ctx, p.v.deps.Clock.Now())
		return msg, err
	})
}

var featured = []struct{ title, body string }{
	{"HANDCRAFTED WITH HEART", "Each piece is made mindfully with local artisans"},
	{"SUSTAINABLY STYLED", "Eco-friendly fabrics & packaging, conscious in every step"},
	{"EMPOWERING EVERY BODY", "No size, height, color, or label rules here, just style for all"},
	{"COMMUNITY DRIVEN", "From followers to models, we create with real people"},
	{"LIMITED AND LOVED", "We produce in small, purposeful batches so nothing is wasted"},
	{"MADE IN INDIA", "Designed and crafted in India, worn everywhere"},
}

// Render implements Page.
func (p *HomePage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	if p.Flash.Value != "" {
		out.line("* " + p.Flash.Value)
		out.blank()
	}

	out.line("STYLE FOR EVERYONE")
	out.line("Discover our inclusive Wildflower Collection - premium fashion pieces designed for")
	out.line("every body, every style, every story. No labels, just authentic expression.")
	out.line("[ Shop Wildflower Collection: /collections ]  [ Our Story: /our-story ]")
	out.blank()

	out.line("ROOTED IN INTENTION")
	out.line("Every piece tells a story of sustainability, community, and authentic self-expression")
	for _, f := range featured {
		out.printf("  %s\n    %s\n", f.title, f.body)
	}
	out.line("[ Explore Wildflower Collection: /collections ]")
	return out.err
}
