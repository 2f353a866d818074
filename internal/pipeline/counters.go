package pipeline

import "time"

// Counters is the per-file row accounting. Every input row lands in exactly
// one of the written or omitted buckets.
type Counters struct {
	TotalRead             int
	ValidDate             int
	WrittenStates         int
	WrittenUTs            int
	OmittedInvalidDate    int
	OmittedUnmappedRegion int
	OmittedNotAllowed     int
	ByState               map[string]int
	ByUT                  map[string]int
}

// NewCounters creates a zeroed counter set with the breakdown maps ready.
func NewCounters() Counters {
	return Counters{
		ByState: make(map[string]int),
		ByUT:    make(map[string]int),
	}
}

// Writes is the number of rows that reached a canonical region table.
func (c Counters) Writes() int {
	return c.WrittenStates + c.WrittenUTs
}

// Omissions is the number of rows dropped or quarantined.
func (c Counters) Omissions() int {
	return c.OmittedInvalidDate + c.OmittedUnmappedRegion + c.OmittedNotAllowed
}

// Consistent reports whether every row read has been accounted for.
func (c Counters) Consistent() bool {
	return c.Writes()+c.Omissions() == c.TotalRead
}

// Merge folds another counter set into c.
func (c *Counters) Merge(o Counters) {
	c.TotalRead += o.TotalRead
	c.ValidDate += o.ValidDate
	c.WrittenStates += o.WrittenStates
	c.WrittenUTs += o.WrittenUTs
	c.OmittedInvalidDate += o.OmittedInvalidDate
	c.OmittedUnmappedRegion += o.OmittedUnmappedRegion
	c.OmittedNotAllowed += o.OmittedNotAllowed
	for name, n := range o.ByState {
		c.ByState[name] += n
	}
	for name, n := range o.ByUT {
		c.ByUT[name] += n
	}
}

// FileResult is the outcome of processing one input file. Err is non-nil
// when the file was aborted (bad schema, unreadable CSV); its counters are
// then zero.
type FileResult struct {
	File     string
	Dataset  string
	Counters Counters
	Err      error
}

// RunResult aggregates a whole run.
type RunResult struct {
	Started  time.Time
	Finished time.Time
	Files    []FileResult
	Totals   Counters
}

// Succeeded reports whether every file in the run processed without error.
func (r RunResult) Succeeded() bool {
	if len(r.Files) == 0 {
		return false
	}
	for _, f := range r.Files {
		if f.Err != nil {
			return false
		}
	}
	return true
}
