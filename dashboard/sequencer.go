package dashboard

import (
	"fmt"

	"github.com/qyinm/ktrend/types"
)

// TargetKey names the logical slot a request refreshes.
type TargetKey string

// ListKey is the slot for the trend list of a category
func ListKey(c types.Category) TargetKey {
	return TargetKey("list:" + c.String())
}

// DetailKey is the slot for the analysis of a keyword
func DetailKey(keyword string) TargetKey {
	return TargetKey("detail:" + keyword)
}

// ChartKey is the slot for the chart of a keyword at a period
func ChartKey(keyword string, p types.ChartPeriod) TargetKey {
	return TargetKey(fmt.Sprintf("chart:%s:%s", keyword, p))
}

// Token identifies one issued request.
type Token struct {
	Key TargetKey
	Seq uint64
}

// Sequencer hands out per-key sequence numbers. A response is observable
// only while its token is still the latest one issued for its key.
type Sequencer struct {
	latest map[TargetKey]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[TargetKey]uint64)}
}

// Issue returns a fresh token for key, superseding every earlier one.
func (s *Sequencer) Issue(key TargetKey) Token {
	s.latest[key]++
	return Token{Key: key, Seq: s.latest[key]}
}

// Latest returns the most recent token for key. Seq is 0 if none was issued.
func (s *Sequencer) Latest(key TargetKey) Token {
	return Token{Key: key, Seq: s.latest[key]}
}

// IsLatest reports whether t may still update visible state.
func (s *Sequencer) IsLatest(t Token) bool {
	return t.Seq != 0 && s.latest[t.Key] == t.Seq
}

// Invalidate makes any in-flight token for key stale without issuing a request.
func (s *Sequencer) Invalidate(key TargetKey) {
	if key == "" {
		return
	}
	s.latest[key]++
}
