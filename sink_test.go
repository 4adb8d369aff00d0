package sun3kbd

import (
	"sync"

	"github.com/jetkvm/sun3kbd/internal/hid"
)

// sentReport is one report a recordingSink received.
type sentReport struct {
	Kind     string
	Keyboard hid.Report
	Usage    uint16
}

// recordingSink keeps every report in memory.
type recordingSink struct {
	mu      sync.Mutex
	reports []sentReport
	err     error
	closed  bool
}

func (s *recordingSink) KeyboardReport(modifier byte, keys []byte) error {
	r := hid.Report{Modifier: modifier}
	copy(r.Keys[:], keys)
	return s.record(sentReport{Kind: "keyboard", Keyboard: r})
}

func (s *recordingSink) ConsumerReport(usage uint16) error {
	return s.record(sentReport{Kind: "consumer", Usage: usage})
}

func (s *recordingSink) SystemReport(usage uint16) error {
	return s.record(sentReport{Kind: "system", Usage: usage})
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Fail makes every following report return err.
func (s *recordingSink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *recordingSink) record(r sentReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

// Keyboard returns the keyboard reports received so far.
func (s *recordingSink) Keyboard() []hid.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []hid.Report
	for _, r := range s.reports {
		if r.Kind == "keyboard" {
			out = append(out, r.Keyboard)
		}
	}
	return out
}

// Usages returns the usages of the consumer or system reports received.
func (s *recordingSink) Usages(kind string) []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint16
	for _, r := range s.reports {
		if r.Kind == kind {
			out = append(out, r.Usage)
		}
	}
	return out
}
