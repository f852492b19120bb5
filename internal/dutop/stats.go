package dutop

import (
	"sort"
	"sync"
	"time"
)

// DirEntry represents one measured subdirectory.
type DirEntry struct {
	// Path is the base directory joined with the subdirectory name.
	Path string `json:"path" yaml:"path"`
	// Size is the cumulative size in bytes of the whole subtree.
	Size int64 `json:"size" yaml:"size"`
}

// Report holds the outcome of a sweep.
type Report struct {
	// Base is the directory whose children were measured.
	Base string `json:"base" yaml:"base"`
	// Requested is the number of entries that was asked for.
	Requested int `json:"requested" yaml:"requested"`
	// Entries contains at most Requested subdirectories, largest first.
	Entries []DirEntry `json:"entries" yaml:"entries"`
	// Measured is the number of subdirectories with a size of at least one byte.
	Measured int `json:"measured" yaml:"measured"`
	// Empty is the number of subdirectories that were measured at zero bytes.
	Empty int `json:"empty" yaml:"empty"`
	// Skipped is the number of children whose metadata could not be read.
	Skipped int64 `json:"skipped" yaml:"skipped"`
	// FileCount is the number of non-directory entries that were counted.
	FileCount int64 `json:"file_count" yaml:"file_count"`
	// TotalBytes is the cumulative size of all measured subdirectories.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
	// Elapsed is the total time taken for the sweep.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Options configures a sweep and CLI behavior.
type Options struct {
	// Path is the base directory.
	Path string
	// TopN is the number of largest subdirectories to report.
	TopN int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table, json or yaml).
	Output string
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// collector owns the entry collection of a sweep and the counters read by the
// progress reporter.
type collector struct {
	mu         sync.Mutex
	entries    []DirEntry
	empty      int
	fileCount  int64
	totalBytes int64
	skipped    int64
}

func newCollector() *collector {
	return &collector{entries: make([]DirEntry, 0)}
}

// addFile records a counted non-directory entry.
func (c *collector) addFile(size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size
}

// addSkip records a child whose metadata could not be read.
func (c *collector) addSkip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skipped++
}

// add records a measured subdirectory. Zero-sized subdirectories are counted
// but never become entries.
func (c *collector) add(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size < 1 {
		c.empty++

		return
	}

	c.entries = append(c.entries, DirEntry{Path: path, Size: size})
}

// progress returns a consistent snapshot of the running counters.
func (c *collector) progress() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileCount, c.totalBytes
}

// finalize sorts the entries largest first and keeps at most topN of them.
// Entries of equal size are ordered by path.
func (c *collector) finalize(base string, topN int) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.entries

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}

		return entries[i].Path < entries[j].Path
	})

	measured := len(entries)
	if topN < len(entries) {
		entries = entries[:topN]
	}

	return &Report{
		Base:       base,
		Requested:  topN,
		Entries:    entries,
		Measured:   measured,
		Empty:      c.empty,
		Skipped:    c.skipped,
		FileCount:  c.fileCount,
		TotalBytes: c.totalBytes,
	}
}
