package domain

// Outcome is the closed set of terminal classification outcomes. Exactly one
// of ParsedSwap, SplitSwapPair or EraseResult implements it; consumers
// type-switch over the three variants.
type Outcome interface {
	outcome()
}

func (*ParsedSwap) outcome()    {}
func (*SplitSwapPair) outcome() {}
func (*EraseResult) outcome()   {}

// Result is the output contract of one classification call.
type Result struct {
	Outcome          Outcome
	ProcessingTimeMs float64
}

// Swap returns the ParsedSwap outcome, or nil.
func (r Result) Swap() *ParsedSwap {
	s, _ := r.Outcome.(*ParsedSwap)
	return s
}

// Split returns the SplitSwapPair outcome, or nil.
func (r Result) Split() *SplitSwapPair {
	s, _ := r.Outcome.(*SplitSwapPair)
	return s
}

// Erase returns the EraseResult outcome, or nil.
func (r Result) Erase() *EraseResult {
	e, _ := r.Outcome.(*EraseResult)
	return e
}

// Success reports whether classification produced a swap (single or split).
func (r Result) Success() bool {
	return r.Erase() == nil && r.Outcome != nil
}
