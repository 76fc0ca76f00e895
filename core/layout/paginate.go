package layout

// SlideKind discriminates slide variants.
type SlideKind int

const (
	// SlideTitle is the per-passage title slide holding only the
	// reference.
	SlideTitle SlideKind = iota
	// SlideBody holds paginated display lines.
	SlideBody
)

// Slide is one page of laid-out content. Title slides carry no lines.
type Slide struct {
	Kind      SlideKind
	Reference string
	Lines     []Line
}

// Paginate packs display lines into body slides holding at most maxLines
// line-height units each. A heading takes two units mid-slide (gap plus
// heading) and one as the first item. A heading immediately followed by
// a body line must leave room for that line too, or the break happens
// before the heading instead of between the pair. An element placed on
// an empty slide never triggers a break, so a single oversized element
// still makes progress.
func Paginate(lines []Line, maxLines int, reference string) []Slide {
	var slides []Slide
	var current []Line
	used := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		slides = append(slides, Slide{Kind: SlideBody, Reference: reference, Lines: current})
		current = nil
		used = 0
	}

	for i, line := range lines {
		if line.Kind == LineHeading {
			needed := 2
			if len(current) == 0 {
				needed = 1
			}
			required := needed
			if i+1 < len(lines) && lines[i+1].Kind == LineBody {
				required++
			}
			if used+required > maxLines && len(current) > 0 {
				flush()
				needed = 1
			}
			current = append(current, line)
			used += needed
			continue
		}
		if used+1 > maxLines && len(current) > 0 {
			flush()
		}
		current = append(current, line)
		used++
	}
	flush()

	return slides
}
