// Command versedeck generates presentation slide decks from scripture passages.
// It fetches passage text from the ESV API, lays it out into fixed-size slides,
// and renders the deck as a PDF or as numbered PNG images.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/layout"
	"github.com/FocuswithJustin/VerseDeck/core/passage"
	"github.com/FocuswithJustin/VerseDeck/core/refs"
	"github.com/FocuswithJustin/VerseDeck/internal/cache"
	"github.com/FocuswithJustin/VerseDeck/internal/config"
	"github.com/FocuswithJustin/VerseDeck/internal/esv"
	"github.com/FocuswithJustin/VerseDeck/internal/logging"
	"github.com/FocuswithJustin/VerseDeck/internal/render"
)

const version = "0.1.0"

// CLI defines the command-line interface for versedeck.
var CLI struct {
	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate a slide deck from scripture references"`
	Cache    CacheGroup  `cmd:"" help:"Passage cache operations (info, clear)"`
	Config   ConfigGroup `cmd:"" help:"Configuration file operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// GenerateCmd fetches passages and renders them into slide decks.
type GenerateCmd struct {
	References []string `arg:"" optional:"" help:"Scripture reference(s), comma-separated or repeated"`
	InputFile  string   `short:"f" help:"Read references from a text file (one per line)" type:"existingfile"`
	OutputFile string   `short:"o" help:"Output file name (default: scripture_YYYY-MM-DD_HHMM.<ext>)"`
	OutputDir  string   `short:"d" help:"Directory where decks are saved" type:"path"`
	Separate   bool     `short:"s" help:"Generate a separate deck for each passage instead of combining them"`
	NoHeadings bool     `help:"Exclude section headings from slides (e.g. 'The Beatitudes')"`
	Font       string   `help:"Font to use (sans, mono, or a path to a .ttf/.otf file)"`
	FontSize   float64  `help:"Body text size in points (other sizes scale proportionally)"`
	Type       string   `help:"Output type (pdf or png)"`
	Open       bool     `help:"Automatically open the generated deck"`
	NoCache    bool     `help:"Bypass the passage cache for this run"`
}

func (c *GenerateCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		var firstRun *config.FirstRunError
		if errors.As(err, &firstRun) {
			fmt.Printf("Created config file: %s\n", firstRun.Path)
			fmt.Println("Add your ESV API key to it and run again (free keys at https://api.esv.org).")
			return errors.ErrInvalidInput
		}
		return err
	}

	// Command-line flags override the config file.
	if c.OutputDir != "" {
		cfg.OutputDirectory = c.OutputDir
	}
	if c.Font != "" {
		cfg.Font = c.Font
	}
	if c.FontSize != 0 {
		cfg.FontSize = c.FontSize
	}
	if c.Type != "" {
		cfg.OutputType = strings.ToLower(c.Type)
	}
	if c.NoHeadings {
		cfg.IncludeSectionHeadings = false
	}
	if c.Separate {
		cfg.CombinePassages = false
	}
	if c.Open {
		cfg.AutoOpen = true
	}
	if c.NoCache {
		cfg.Cache.Enabled = false
	}

	switch cfg.OutputType {
	case "pdf", "png":
	default:
		return errors.NewValidation("type", fmt.Sprintf("unsupported output type %q (use pdf or png)", cfg.OutputType))
	}
	if cfg.FontSize <= 0 {
		return errors.NewValidation("font-size", "font size must be positive")
	}

	logFile := cfg.LogFile
	if logFile == "" {
		if logFile, err = config.DefaultLogFile(); err != nil {
			return err
		}
	}
	if err := logging.InitLoggerWithFile(logging.ParseLevel(cfg.LogLevel), logging.FormatText, logFile); err != nil {
		return errors.Wrap(err, "initializing logging")
	}
	ctx := logging.WithRunID(context.Background(), logging.NewRunID())

	references, err := collectReferences(c.References, c.InputFile)
	if err != nil {
		return err
	}
	if len(references) == 0 {
		return errors.NewValidation("references", `no scripture reference provided (try: versedeck "John 3:16-21")`)
	}

	// Normalize locally before touching the network so typos fail fast.
	normalized := make([]string, 0, len(references))
	for _, ref := range references {
		n, err := refs.Normalize(ref)
		if err != nil {
			return errors.Wrapf(err, "unrecognized reference %q", ref)
		}
		normalized = append(normalized, n)
	}
	logging.InfoContext(ctx, "processing references", "count", len(normalized))

	fonts := render.NewFonts()
	fontName := cfg.Font
	if render.IsFontPath(fontName) {
		name := strings.TrimSuffix(filepath.Base(fontName), filepath.Ext(fontName))
		if err := fonts.RegisterFile(name, fontName); err != nil {
			return err
		}
		fontName = name
	} else if !fonts.Has(fontName) {
		return errors.NewValidation("font", fmt.Sprintf("unknown font %q (use sans, mono, or a .ttf/.otf path)", fontName))
	}

	geom := layout.NewGeometry(cfg.FontSize)
	style := layout.DefaultStyle()
	style.Font = fontName
	style.BoldFont = fonts.Bold(fontName)

	var store *cache.Store
	if cfg.Cache.Enabled {
		cachePath, cerr := config.DefaultCachePath()
		if cerr == nil {
			store, cerr = cache.Open(cachePath, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		}
		if cerr != nil {
			logging.WarnContext(ctx, "cache unavailable, fetching directly", "error", cerr)
			store = nil
		} else {
			defer store.Close()
		}
	}

	client := esv.NewClient(esv.Config{
		APIKey:          cfg.APIKey,
		Endpoint:        cfg.APIEndpoint,
		IncludeHeadings: cfg.IncludeSectionHeadings,
	})

	fmt.Printf("Fetching %d passage(s)...\n", len(normalized))
	passages := make([]passage.RawPassage, 0, len(normalized))
	for _, ref := range normalized {
		p, err := fetchPassage(ctx, client, store, ref, cfg.IncludeSectionHeadings)
		if err != nil {
			return friendlyFetchError(ref, err)
		}
		passages = append(passages, p)
		fmt.Printf("  ✓ %s\n", p.Reference)
	}

	if err := os.MkdirAll(cfg.OutputDirectory, 0755); err != nil {
		return errors.NewIO("create output directory", cfg.OutputDirectory, err)
	}
	ext := render.OutputExt(cfg.OutputType)

	fmt.Printf("\nGenerating %s deck(s)...\n", strings.ToUpper(cfg.OutputType))

	var generated []string
	if cfg.CombinePassages {
		name := c.OutputFile
		if name == "" {
			name = defaultOutputName(cfg.OutputType, time.Now())
		} else if filepath.Ext(name) == "" {
			name += ext
		}
		outPath := filepath.Join(cfg.OutputDirectory, name)
		if err := writeDeck(ctx, cfg, geom, style, fonts, outPath, passages); err != nil {
			return err
		}
		generated = append(generated, outPath)
		fmt.Printf("  ✓ %s\n", outPath)
		fmt.Printf("\nSuccessfully generated: %s\n", outPath)
	} else {
		for _, p := range passages {
			outPath := filepath.Join(cfg.OutputDirectory, sanitizeFilename(p.Reference)+ext)
			if err := writeDeck(ctx, cfg, geom, style, fonts, outPath, []passage.RawPassage{p}); err != nil {
				return err
			}
			generated = append(generated, outPath)
			fmt.Printf("  ✓ %s\n", outPath)
		}
		fmt.Printf("\nSuccessfully generated %d deck(s)!\n", len(generated))
	}

	if cfg.AutoOpen && len(generated) > 0 {
		if err := openFile(generated[0]); err != nil {
			logging.WarnContext(ctx, "auto-open failed", "path", generated[0], "error", err)
		}
	}
	return nil
}

// cachedPassage is the cache value for one fetched passage.
type cachedPassage struct {
	Canonical string `json:"canonical"`
	Text      string `json:"text"`
}

// fetchPassage returns the passage for reference, from the cache when it
// holds a fresh entry, otherwise from the API. A nil store disables caching.
func fetchPassage(ctx context.Context, client *esv.Client, store *cache.Store, reference string, headings bool) (passage.RawPassage, error) {
	key := cache.Key(reference, fmt.Sprintf("headings=%t", headings))
	start := time.Now()

	if store != nil {
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			var cached cachedPassage
			if err := json.Unmarshal(data, &cached); err == nil {
				logging.PassageFetch(ctx, reference, true, time.Since(start))
				return passage.RawPassage{Reference: cached.Canonical, Text: cached.Text}, nil
			}
		}
	}

	fetched, err := client.FetchPassage(ctx, reference)
	if err != nil {
		return passage.RawPassage{}, err
	}
	logging.PassageFetch(ctx, reference, false, time.Since(start))

	if store != nil {
		data, err := json.Marshal(cachedPassage{Canonical: fetched.Canonical, Text: fetched.Text})
		if err == nil {
			if err := store.Put(ctx, key, data); err != nil {
				logging.WarnContext(ctx, "cache write failed", "reference", reference, "error", err)
			}
		}
	}
	return passage.RawPassage{Reference: fetched.Canonical, Text: fetched.Text}, nil
}

// writeDeck lays the passages out and renders them into a single deck file.
func writeDeck(ctx context.Context, cfg *config.Config, geom layout.Geometry, style layout.Style, fonts *render.Fonts, path string, passages []passage.RawPassage) error {
	info := render.PDFInfo{
		Title:   deckTitle(passages),
		Subject: "Scripture slides (" + cfg.SourceLabel + ")",
	}
	r, err := render.New(cfg.OutputType, path, geom, fonts, info)
	if err != nil {
		return err
	}

	engine, err := layout.New(layout.Config{
		Geometry:    geom,
		Style:       style,
		SourceLabel: cfg.SourceLabel,
		Measure:     r.Measure,
		Logger:      logging.LoggerFromContext(ctx),
	})
	if err != nil {
		return errors.Wrap(err, "layout engine")
	}

	var slides []layout.Slide
	for _, p := range passages {
		slides = append(slides, engine.Layout(p)...)
	}
	engine.Draw(slides, r)
	if err := r.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	logging.DeckWritten(ctx, path, len(slides), "files", len(r.Files()))
	return nil
}

// deckTitle joins the canonical references for the document title.
func deckTitle(passages []passage.RawPassage) string {
	titles := make([]string, len(passages))
	for i, p := range passages {
		titles[i] = p.Reference
	}
	return strings.Join(titles, ", ")
}

// collectReferences merges positional references (splitting comma-separated
// ones) with the lines of an optional input file.
func collectReferences(args []string, inputFile string) ([]string, error) {
	var references []string
	for _, arg := range args {
		for _, ref := range strings.Split(arg, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				references = append(references, ref)
			}
		}
	}

	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, errors.NewIO("read input file", inputFile, err)
		}
		count := 0
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				references = append(references, line)
				count++
			}
		}
		if count == 0 {
			return nil, errors.NewValidation("input-file", fmt.Sprintf("input file %s is empty; add scripture references, one per line", inputFile))
		}
	}
	return references, nil
}

// sanitizeFilename makes a reference safe as a file name. "John 3:16"
// becomes "John_3_16".
func sanitizeFilename(text string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", ",", "", ";", "")
	return r.Replace(text)
}

// defaultOutputName names a combined deck after the generation time.
func defaultOutputName(outputType string, now time.Time) string {
	return "scripture_" + now.Format("2006-01-02_1504") + render.OutputExt(outputType)
}

// friendlyFetchError rewords fetch failures for the terminal.
func friendlyFetchError(reference string, err error) error {
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		return errors.Wrapf(err, "the ESV API rejected the key while fetching %q; check api_key in your config", reference)
	case errors.Is(err, errors.ErrRateLimited):
		return errors.Wrapf(err, "the ESV API refused %q; wait a little and retry", reference)
	case errors.Is(err, errors.ErrNotFound):
		return errors.Wrapf(err, "no passage found for %q; check the reference", reference)
	case errors.Is(err, errors.ErrTimeout):
		return errors.Wrapf(err, "timed out fetching %q; check your connection and retry", reference)
	case errors.Is(err, errors.ErrNetwork):
		return errors.Wrapf(err, "network error fetching %q; check your connection", reference)
	case errors.Is(err, errors.ErrInternal):
		return errors.Wrapf(err, "the ESV API had a problem fetching %q; try again shortly", reference)
	default:
		return errors.Wrapf(err, "fetching %q", reference)
	}
}

// openFile opens path with the platform's default viewer.
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

// CacheGroup contains passage cache operations.
type CacheGroup struct {
	Info  CacheInfoCmd  `cmd:"" help:"Show cache location, driver, and contents"`
	Clear CacheClearCmd `cmd:"" help:"Delete all cached passages"`
}

// CacheInfoCmd prints cache statistics.
type CacheInfoCmd struct{}

func (c *CacheInfoCmd) Run() error {
	path, err := config.DefaultCachePath()
	if err != nil {
		return err
	}

	// TTL comes from the config when it loads; cache info still works
	// without a valid config.
	var ttl time.Duration
	if cfg, err := config.Load(); err == nil {
		ttl = time.Duration(cfg.Cache.TTLHours) * time.Hour
	}

	store, err := cache.Open(path, ttl)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	pruned, err := store.Prune(ctx)
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Cache: %s\n", path)
	fmt.Printf("  Driver: %s (%s)\n", cache.DriverName(), cache.DriverType())
	fmt.Printf("  Entries: %d\n", stats.Entries)
	fmt.Printf("  Size: %d bytes\n", stats.SizeBytes)
	if pruned > 0 {
		fmt.Printf("  Expired entries pruned: %d\n", pruned)
	}
	return nil
}

// CacheClearCmd deletes all cached passages.
type CacheClearCmd struct{}

func (c *CacheClearCmd) Run() error {
	path, err := config.DefaultCachePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Println("Cache is already empty.")
		return nil
	}

	store, err := cache.Open(path, 0)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

// ConfigGroup contains configuration file operations.
type ConfigGroup struct {
	Init ConfigInitCmd `cmd:"" help:"Write the default config file if it does not exist"`
}

// ConfigInitCmd writes the default config file.
type ConfigInitCmd struct{}

func (c *ConfigInitCmd) Run() error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	created, err := config.CreateDefault(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created %s\n", path)
		fmt.Println("Add your ESV API key to it (free keys at https://api.esv.org).")
	} else {
		fmt.Printf("Config already exists: %s\n", path)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("versedeck version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("versedeck"),
		kong.Description("Generate presentation slide decks from scripture passages"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
