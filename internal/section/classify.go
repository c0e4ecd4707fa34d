package section

// EndOfContent is the level-3 heading after which nothing is kept.
const EndOfContent = "External links"

type state int

const (
	beforeTarget state = iota
	inTarget
	inBackSection
	done
)

// Rules configure one classification. Build them once and share them;
// Classify never modifies them.
type Rules struct {
	Target       string
	BackSections map[string]bool
	// Relocate appends back sections after the retained content instead of
	// dropping them.
	Relocate bool
	// Extracted marks input that is already a target section body, such as
	// a stored definition. Classification then starts inside the target.
	Extracted bool
}

func NewRules(target string, backSections []string, relocate bool) Rules {
	set := make(map[string]bool, len(backSections))
	for _, s := range backSections {
		set[s] = true
	}
	return Rules{Target: target, BackSections: set, Relocate: relocate}
}

type Result struct {
	// Blocks is the retained sequence in document order, followed by the
	// deferred blocks when Rules.Relocate is set.
	Blocks []Block
	// Deferred holds back-section headings and their content.
	Deferred []Block
	// Seen lists back-section labels in the order they were met.
	Seen []string
	// Found is false when the target heading never appeared.
	Found bool
}

// Classify runs a single pass over the top-level blocks of an article.
//
// Everything before the level-2 heading equal to the target is dropped. In
// the target section a level-2 heading or the "External links" subheading
// ends the pass. Subheadings named in BackSections open a back section whose
// content is deferred until the next ordinary subheading.
//
// With Rules.Extracted set the pass starts inside the target section, so
// classifying Classify's own output changes nothing.
func Classify(blocks []Block, rules Rules) Result {
	var res Result

	st := beforeTarget
	if rules.Extracted {
		st = inTarget
		res.Found = true
	}

	seen := map[string]bool{}

loop:
	for _, b := range blocks {
		if st == beforeTarget {
			if b.IsHeading(2) && b.Text == rules.Target {
				st = inTarget
				res.Found = true
			}
			continue
		}

		switch {
		case b.IsHeading(2):
			st = done
		case b.IsHeading(3) && b.Text == EndOfContent:
			st = done
		case b.IsSubheading() && rules.BackSections[b.Text]:
			if !seen[b.Text] {
				seen[b.Text] = true
				res.Seen = append(res.Seen, b.Text)
			}
			st = inBackSection
			res.Deferred = append(res.Deferred, b)
		case b.IsSubheading():
			st = inTarget
			res.Blocks = append(res.Blocks, b)
		case st == inBackSection:
			res.Deferred = append(res.Deferred, b)
		default:
			res.Blocks = append(res.Blocks, b)
		}

		if st == done {
			break loop
		}
	}

	if rules.Relocate {
		res.Blocks = append(res.Blocks, res.Deferred...)
	}

	return res
}
