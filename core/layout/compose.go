package layout

// Draw emits the draw instructions for a slide sequence onto a surface.
// Slides from several passages can be concatenated and drawn in one
// call; the surface starts on a fresh page.
func (e *Engine) Draw(slides []Slide, s Surface) {
	for i, slide := range slides {
		if i > 0 {
			s.NextPage()
		}
		e.drawBackground(s)
		switch slide.Kind {
		case SlideTitle:
			e.drawTitle(slide, s)
		case SlideBody:
			e.drawBody(slide, s)
		}
	}
	e.log.Debug("deck drawn", "slides", len(slides))
}

func (e *Engine) drawBackground(s Surface) {
	s.SetFill(e.style.Background)
	s.FillRect(0, 0, e.geom.Width, e.geom.Height)
}

func (e *Engine) drawTitle(slide Slide, s Surface) {
	g := e.geom
	s.SetFill(e.style.Text)
	s.SetFont(e.style.BoldFont, g.TitleSize)
	width := e.measure(slide.Reference, e.style.BoldFont, g.TitleSize)
	s.DrawText(slide.Reference, (g.Width-width)/2, g.Height/2)

	e.drawFooter(s, e.label)
}

func (e *Engine) drawBody(slide Slide, s Surface) {
	g := e.geom
	y := g.MarginTop
	for i, line := range slide.Lines {
		switch line.Kind {
		case LineHeading:
			// Gap line above a heading, except at the top of the slide.
			if i > 0 {
				y += g.LineHeight
			}
			s.SetFill(e.style.Text)
			s.SetFont(e.style.BoldFont, g.BodySize)
			width := e.measure(line.Text, e.style.BoldFont, g.BodySize)
			s.DrawText(line.Text, (g.Width-width)/2, y)
		case LineBody:
			e.drawSegments(s, line.Text, g.MarginLeft, y)
		case LinePoetry:
			e.drawSegments(s, line.Text, g.MarginLeft+g.IndentOffset(line.Indent), y)
		}
		y += g.LineHeight
	}

	e.drawFooter(s, slide.Reference+" | "+e.label)
}

// drawSegments renders one display line, drawing verse numbers small and
// raised, then resuming body style for the following text.
func (e *Engine) drawSegments(s Surface, text string, x, y float64) {
	g := e.geom
	for _, seg := range SegmentLine(text) {
		switch seg.Kind {
		case SegmentVerseNumber:
			s.SetFill(e.style.VerseNumber)
			s.SetFont(e.style.Font, g.VerseSize)
			s.DrawText(seg.Text, x, y-g.SuperscriptRise())
			x += e.measure(seg.Text, e.style.Font, g.VerseSize)
		case SegmentText:
			s.SetFill(e.style.Text)
			s.SetFont(e.style.Font, g.BodySize)
			s.DrawText(seg.Text, x, y)
			x += e.measure(seg.Text, e.style.Font, g.BodySize)
		}
	}
}

func (e *Engine) drawFooter(s Surface, text string) {
	g := e.geom
	s.SetFill(e.style.Text)
	s.SetFont(e.style.Font, g.FooterSize)
	s.DrawText(text, g.MarginLeft, g.FooterBaseline())
}
