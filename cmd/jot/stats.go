package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jot"
	"jot/codec"
	"jot/internal/observ"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] file.json...",
	Short: "Parse documents and report their resident footprint",
	Long:  `Stats parses every document into the compact value store and reports per-kind record counts, interner deduplication and approximate resident bytes.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int("top-keys", 10, "number of most frequent object keys to list")
}

// docTally accumulates per-kind counts and footprint over one or more
// value trees.
type docTally struct {
	nulls, bools     int64
	numbers, strings int64
	arrays, objects  int64
	arraySlots       int64
	objectEntries    int64
	stringBytes      int64
	keyUses          map[string]int64
}

func (t *docTally) add(v jot.Value) {
	switch v.Kind() {
	case jot.KindNull:
		t.nulls++
	case jot.KindBool:
		t.bools++
	case jot.KindNumber:
		t.numbers++
	case jot.KindString:
		s, _ := v.AsString()
		t.strings++
		t.stringBytes += int64(s.Len())
	case jot.KindArray:
		a, _ := v.IntoArray()
		t.arrays++
		t.arraySlots += int64(a.Cap())
		for _, e := range a.Values() {
			t.add(e)
		}
	default:
		o, _ := v.IntoObject()
		t.objects++
		t.objectEntries += int64(o.Cap())
		o.Range(func(key string, e jot.Value) bool {
			t.keyUses[key]++
			t.add(e)
			return true
		})
	}
}

func (t *docTally) merge(other *docTally) {
	t.nulls += other.nulls
	t.bools += other.bools
	t.numbers += other.numbers
	t.strings += other.strings
	t.arrays += other.arrays
	t.objects += other.objects
	t.arraySlots += other.arraySlots
	t.objectEntries += other.objectEntries
	t.stringBytes += other.stringBytes
	for k, n := range other.keyUses {
		t.keyUses[k] += n
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	topKeys, _ := cmd.Flags().GetInt("top-keys")

	timer := observ.NewTimer()
	baseline := jot.Snapshot()

	stopParse := timer.Begin("parse")
	docs := make([]jot.Value, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			v, err := codec.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			docs[i] = v
			return nil
		})
	}
	err = g.Wait()
	stopParse(fmt.Sprintf("%d files", len(args)))
	if err != nil {
		for i := range docs {
			if !docs[i].IsZero() {
				docs[i].Drop()
			}
		}
		return err
	}

	stopTally := timer.Begin("tally")
	total := &docTally{keyUses: map[string]int64{}}
	var mu sync.Mutex
	var tg errgroup.Group
	tg.SetLimit(runtime.NumCPU())
	for i := range docs {
		i := i
		tg.Go(func() error {
			part := &docTally{keyUses: map[string]int64{}}
			part.add(docs[i])
			mu.Lock()
			total.merge(part)
			mu.Unlock()
			return nil
		})
	}
	if err := tg.Wait(); err != nil {
		return err
	}
	stopTally("")

	snap := jot.Snapshot()
	printStats(cmd, cfg, total, baseline, snap, topKeys)

	for i := range docs {
		docs[i].Drop()
	}
	if timings && !quiet {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

// Rough per-record footprint: the slab word costs of each shape.
const (
	numRecordBytes = 16
	strRecordBytes = 32 // header; contents counted separately
	valueWordBytes = 8
	objEntryBytes  = 16
	objBucketBytes = 4
)

func approxBytes(t *docTally, snap jot.Stats) int64 {
	b := t.numbers * numRecordBytes
	b += int64(snap.InternedStrings)*strRecordBytes + t.stringBytes
	b += t.arraySlots * valueWordBytes
	b += t.objectEntries * (objEntryBytes + objBucketBytes)
	return b
}

func printStats(cmd *cobra.Command, cfg *cliConfig, t *docTally, baseline, snap jot.Stats, topKeys int) {
	colored := useColor(cmd, cfg, os.Stdout)
	color.NoColor = !colored

	header := lipgloss.NewStyle().Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(2)

	rows := [][2]string{
		{"null values", strconv.FormatInt(t.nulls, 10)},
		{"booleans", strconv.FormatInt(t.bools, 10)},
		{"numbers", strconv.FormatInt(t.numbers, 10)},
		{"strings", strconv.FormatInt(t.strings, 10)},
		{"arrays", strconv.FormatInt(t.arrays, 10)},
		{"objects", strconv.FormatInt(t.objects, 10)},
	}

	fmt.Println(header.Render("value counts"))
	for _, r := range rows {
		fmt.Println(cell.Render(fmt.Sprintf("  %-14s", r[0])) + r[1])
	}

	liveNumbers := snap.Numbers.Live - baseline.Numbers.Live
	liveStrings := snap.Strings.Live - baseline.Strings.Live
	fmt.Println(header.Render("store"))
	fmt.Printf("  %-14s %d (heap; small ints are free)\n", "number recs", liveNumbers)
	fmt.Printf("  %-14s %d unique for %d handles\n", "string recs", liveStrings, t.strings+sumKeys(t.keyUses))
	fmt.Printf("  %-14s ~%s\n", "resident", humanBytes(approxBytes(t, snap)))

	if dups := t.strings + sumKeys(t.keyUses) - liveStrings; dups > 0 && liveStrings > 0 {
		saved := color.GreenString("%d", dups)
		fmt.Printf("  %-14s %s string handles deduplicated by interning\n", "savings", saved)
	}

	if topKeys > 0 && len(t.keyUses) > 0 {
		fmt.Println(header.Render("top keys"))
		type kc struct {
			key string
			n   int64
		}
		list := make([]kc, 0, len(t.keyUses))
		for k, n := range t.keyUses {
			list = append(list, kc{k, n})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].n != list[j].n {
				return list[i].n > list[j].n
			}
			return list[i].key < list[j].key
		})
		if len(list) > topKeys {
			list = list[:topKeys]
		}
		for _, e := range list {
			fmt.Printf("  %-24s %d\n", e.key, e.n)
		}
	}
}

func sumKeys(m map[string]int64) int64 {
	var n int64
	for _, v := range m {
		n += v
	}
	return n
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
