// Package refs parses and normalizes scripture references. References
// are validated locally before any passage fetch so that typos fail
// fast and canonical forms are available for file naming.
package refs

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

// Reference is a parsed scripture reference that may span a range of
// verses or chapters.
type Reference struct {
	Book         string `parser:"@Book"`
	ChapterStart *int   `parser:"( @Number"`
	VerseStart   *int   `parser:"( \":\" @Number )?"`
	ChapterEnd   *int   `parser:"( \"-\" ( @Number"`
	VerseEnd     *int   `parser:"    ( \":\" @Number )? )? )? )?"`
}

// referenceLexer tokenizes scripture references.
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Book names: letters, optional leading ordinal, optional trailing period
	// Examples: Genesis, Gen, Gen., 1John, 1 John, Song of Solomon
	{Name: "Book", Pattern: `(?:\d\s*)?[A-Za-z]+(?:\s+(?:of\s+)?[A-Za-z]+)*\.?`},
	// Numbers (chapter/verse)
	{Name: "Number", Pattern: `\d+`},
	// Separators
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	// Whitespace
	{Name: "Whitespace", Pattern: `\s+`},
})

// referenceParser parses scripture references.
var referenceParser = participle.MustBuild[Reference](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a scripture reference string.
// Supported formats:
//   - "Genesis 1:1" (book chapter:verse)
//   - "Gen 1:1" (abbreviated book)
//   - "Gen.1.1" or "Gen 1.1" (dot separator)
//   - "Genesis 1:1-5" (verse range within chapter)
//   - "Genesis 1:1-2:5" (range across chapters)
//   - "Genesis 1-2" (chapter range)
//   - "Genesis 1" (full chapter)
//   - "Genesis" (full book)
func Parse(input string) (*Reference, error) {
	normalized := normalizeSeparators(input)

	ref, err := referenceParser.ParseString("", normalized)
	if err != nil {
		return nil, &errors.ParseError{
			Format:  "reference",
			Message: fmt.Sprintf("cannot parse %q: %v", input, err),
		}
	}

	ref.Book = NormalizeBook(ref.Book)

	// Fix verse range detection: in "Genesis 1:1-5" the number after the
	// dash is a verse end, not a chapter end.
	if ref.VerseStart != nil && ref.ChapterEnd != nil && ref.VerseEnd == nil {
		ref.VerseEnd = ref.ChapterEnd
		ref.ChapterEnd = nil
	}

	return ref, nil
}

// Normalize parses input and returns its canonical display form.
func Normalize(input string) (string, error) {
	ref, err := Parse(input)
	if err != nil {
		return "", err
	}
	return ref.String(), nil
}

// normalizeSeparators converts dot separators to standard colon format.
// "Gen.1.1" -> "Gen 1:1"
// "Gen 1.1" -> "Gen 1:1"
func normalizeSeparators(input string) string {
	result := input

	parts := strings.Split(result, ".")
	if len(parts) >= 2 {
		book := parts[0]
		rest := parts[1:]

		allNumbers := true
		for _, p := range rest {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			for _, c := range p {
				if c < '0' || c > '9' {
					allNumbers = false
					break
				}
			}
		}

		if allNumbers && len(rest) > 0 {
			if len(rest) == 1 {
				result = book + " " + rest[0]
			} else {
				result = book + " " + rest[0] + ":" + strings.Join(rest[1:], ":")
			}
		}
	}

	return result
}

// String returns the canonical string representation of the reference.
func (r *Reference) String() string {
	if r.ChapterStart == nil {
		return r.Book
	}

	var sb strings.Builder
	sb.WriteString(r.Book)
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("%d", *r.ChapterStart))

	if r.VerseStart != nil {
		sb.WriteString(fmt.Sprintf(":%d", *r.VerseStart))
	}

	if r.ChapterEnd != nil {
		sb.WriteString("-")
		sb.WriteString(fmt.Sprintf("%d", *r.ChapterEnd))
		if r.VerseEnd != nil {
			sb.WriteString(fmt.Sprintf(":%d", *r.VerseEnd))
		}
	} else if r.VerseEnd != nil {
		sb.WriteString(fmt.Sprintf("-%d", *r.VerseEnd))
	}

	return sb.String()
}

// IsRange returns true if this reference spans multiple verses or chapters.
func (r *Reference) IsRange() bool {
	return r.ChapterEnd != nil || r.VerseEnd != nil
}

// IsChapterOnly returns true if this reference is for full chapter(s).
func (r *Reference) IsChapterOnly() bool {
	return r.ChapterStart != nil && r.VerseStart == nil
}

// IsBookOnly returns true if this reference is for the entire book.
func (r *Reference) IsBookOnly() bool {
	return r.ChapterStart == nil
}

// NormalizeBook converts book name abbreviations to the display form the
// ESV API uses in canonical references: spaced ordinals and a singular
// "Psalm".
func NormalizeBook(book string) string {
	book = strings.TrimSuffix(book, ".")
	book = strings.TrimSpace(book)

	normalized := strings.ToLower(book)
	// Collapse runs of whitespace so "1  john" still matches.
	normalized = strings.Join(strings.Fields(normalized), " ")

	if canonical, ok := bookNames[normalized]; ok {
		return canonical
	}

	// Unknown books pass through title-cased; the passage source decides
	// whether they exist.
	return titleCase(book)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// bookNames maps lowercase names and abbreviations to canonical form.
var bookNames = map[string]string{
	// Genesis
	"gen": "Genesis", "genesis": "Genesis",
	// Exodus
	"exod": "Exodus", "exo": "Exodus", "exodus": "Exodus", "ex": "Exodus",
	// Leviticus
	"lev": "Leviticus", "leviticus": "Leviticus",
	// Numbers
	"num": "Numbers", "numbers": "Numbers",
	// Deuteronomy
	"deut": "Deuteronomy", "deu": "Deuteronomy", "deuteronomy": "Deuteronomy",
	// Joshua
	"josh": "Joshua", "jos": "Joshua", "joshua": "Joshua",
	// Judges
	"judg": "Judges", "jdg": "Judges", "judges": "Judges",
	// Ruth
	"ruth": "Ruth",
	// 1 Samuel
	"1sam": "1 Samuel", "1 sam": "1 Samuel", "1 samuel": "1 Samuel", "1samuel": "1 Samuel",
	// 2 Samuel
	"2sam": "2 Samuel", "2 sam": "2 Samuel", "2 samuel": "2 Samuel", "2samuel": "2 Samuel",
	// 1 Kings
	"1kgs": "1 Kings", "1 kgs": "1 Kings", "1 kings": "1 Kings", "1kings": "1 Kings",
	// 2 Kings
	"2kgs": "2 Kings", "2 kgs": "2 Kings", "2 kings": "2 Kings", "2kings": "2 Kings",
	// 1 Chronicles
	"1chr": "1 Chronicles", "1 chr": "1 Chronicles", "1 chronicles": "1 Chronicles", "1chronicles": "1 Chronicles",
	// 2 Chronicles
	"2chr": "2 Chronicles", "2 chr": "2 Chronicles", "2 chronicles": "2 Chronicles", "2chronicles": "2 Chronicles",
	// Ezra
	"ezra": "Ezra", "ezr": "Ezra",
	// Nehemiah
	"neh": "Nehemiah", "nehemiah": "Nehemiah",
	// Esther
	"esth": "Esther", "est": "Esther", "esther": "Esther",
	// Job
	"job": "Job",
	// Psalms: the ESV canonical form is singular
	"ps": "Psalm", "psa": "Psalm", "psalm": "Psalm", "psalms": "Psalm",
	// Proverbs
	"prov": "Proverbs", "pro": "Proverbs", "proverbs": "Proverbs",
	// Ecclesiastes
	"eccl": "Ecclesiastes", "ecc": "Ecclesiastes", "ecclesiastes": "Ecclesiastes",
	// Song of Solomon
	"song": "Song of Solomon", "song of solomon": "Song of Solomon",
	"song of songs": "Song of Solomon", "sos": "Song of Solomon", "canticles": "Song of Solomon",
	// Isaiah
	"isa": "Isaiah", "isaiah": "Isaiah",
	// Jeremiah
	"jer": "Jeremiah", "jeremiah": "Jeremiah",
	// Lamentations
	"lam": "Lamentations", "lamentations": "Lamentations",
	// Ezekiel
	"ezek": "Ezekiel", "eze": "Ezekiel", "ezekiel": "Ezekiel",
	// Daniel
	"dan": "Daniel", "daniel": "Daniel",
	// Hosea
	"hos": "Hosea", "hosea": "Hosea",
	// Joel
	"joel": "Joel",
	// Amos
	"amos": "Amos",
	// Obadiah
	"obad": "Obadiah", "oba": "Obadiah", "obadiah": "Obadiah",
	// Jonah
	"jonah": "Jonah", "jon": "Jonah",
	// Micah
	"mic": "Micah", "micah": "Micah",
	// Nahum
	"nah": "Nahum", "nahum": "Nahum",
	// Habakkuk
	"hab": "Habakkuk", "habakkuk": "Habakkuk",
	// Zephaniah
	"zeph": "Zephaniah", "zep": "Zephaniah", "zephaniah": "Zephaniah",
	// Haggai
	"hag": "Haggai", "haggai": "Haggai",
	// Zechariah
	"zech": "Zechariah", "zec": "Zechariah", "zechariah": "Zechariah",
	// Malachi
	"mal": "Malachi", "malachi": "Malachi",
	// Matthew
	"matt": "Matthew", "mat": "Matthew", "matthew": "Matthew", "mt": "Matthew",
	// Mark
	"mark": "Mark", "mrk": "Mark", "mk": "Mark",
	// Luke
	"luke": "Luke", "luk": "Luke", "lk": "Luke",
	// John
	"john": "John", "joh": "John", "jn": "John",
	// Acts
	"acts": "Acts", "act": "Acts",
	// Romans
	"rom": "Romans", "romans": "Romans",
	// 1 Corinthians
	"1cor": "1 Corinthians", "1 cor": "1 Corinthians", "1 corinthians": "1 Corinthians", "1corinthians": "1 Corinthians",
	// 2 Corinthians
	"2cor": "2 Corinthians", "2 cor": "2 Corinthians", "2 corinthians": "2 Corinthians", "2corinthians": "2 Corinthians",
	// Galatians
	"gal": "Galatians", "galatians": "Galatians",
	// Ephesians
	"eph": "Ephesians", "ephesians": "Ephesians",
	// Philippians
	"phil": "Philippians", "philippians": "Philippians",
	// Colossians
	"col": "Colossians", "colossians": "Colossians",
	// 1 Thessalonians
	"1thess": "1 Thessalonians", "1 thess": "1 Thessalonians", "1 thessalonians": "1 Thessalonians", "1thessalonians": "1 Thessalonians",
	// 2 Thessalonians
	"2thess": "2 Thessalonians", "2 thess": "2 Thessalonians", "2 thessalonians": "2 Thessalonians", "2thessalonians": "2 Thessalonians",
	// 1 Timothy
	"1tim": "1 Timothy", "1 tim": "1 Timothy", "1 timothy": "1 Timothy", "1timothy": "1 Timothy",
	// 2 Timothy
	"2tim": "2 Timothy", "2 tim": "2 Timothy", "2 timothy": "2 Timothy", "2timothy": "2 Timothy",
	// Titus
	"titus": "Titus", "tit": "Titus",
	// Philemon
	"phlm": "Philemon", "philemon": "Philemon", "phm": "Philemon",
	// Hebrews
	"heb": "Hebrews", "hebrews": "Hebrews",
	// James
	"jas": "James", "james": "James",
	// 1 Peter
	"1pet": "1 Peter", "1 pet": "1 Peter", "1 peter": "1 Peter", "1peter": "1 Peter",
	// 2 Peter
	"2pet": "2 Peter", "2 pet": "2 Peter", "2 peter": "2 Peter", "2peter": "2 Peter",
	// 1 John
	"1john": "1 John", "1 john": "1 John", "1jn": "1 John", "1 jn": "1 John",
	// 2 John
	"2john": "2 John", "2 john": "2 John", "2jn": "2 John", "2 jn": "2 John",
	// 3 John
	"3john": "3 John", "3 john": "3 John", "3jn": "3 John", "3 jn": "3 John",
	// Jude
	"jude": "Jude",
	// Revelation
	"rev": "Revelation", "revelation": "Revelation",
}
