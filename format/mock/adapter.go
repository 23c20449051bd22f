package mock

import (
	"iter"
	"sync"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// Step is one scripted source unit.
type Step struct {
	Text string
	Skip bool
	Err  error
}

// Unit is a step that produces a fragment with text.
func Unit(text string) Step { return Step{Text: text} }

// Skipped is a step that produces nothing.
func Skipped() Step { return Step{Skip: true} }

// Failing is a step that yields err and ends the sequence.
func Failing(err error) Step { return Step{Err: err} }

// Units builds one producing step per text.
func Units(texts ...string) []Step {
	steps := make([]Step, len(texts))
	for i, t := range texts {
		steps[i] = Unit(t)
	}
	return steps
}

// MockAdapter is a test double for format.Adapter.
type MockAdapter struct {
	// OpenErr, if set, is yielded as a decode error before any fragment.
	OpenErr error
	// ContentType labels decode errors.
	ContentType core.ContentType

	steps []Step

	mu          sync.Mutex
	calls       int
	runs        int
	extractions int
	releases    int
	payloads    []core.Payload
}

var _ format.Adapter = (*MockAdapter)(nil)

// NewMockAdapter creates an adapter that replays steps on every run.
func NewMockAdapter(steps ...Step) *MockAdapter {
	return &MockAdapter{steps: steps, ContentType: core.ContentTypePlainText}
}

// WithOpenError makes every run fail with a decode error wrapping err.
func (m *MockAdapter) WithOpenError(err error) *MockAdapter {
	m.OpenErr = err
	return m
}

// Ingest records the call and returns a lazy replay of the script.
func (m *MockAdapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	m.mu.Lock()
	m.calls++
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()

	return func(yield func(format.Fragment, error) bool) {
		m.mu.Lock()
		m.runs++
		m.mu.Unlock()
		defer func() {
			m.mu.Lock()
			m.releases++
			m.mu.Unlock()
		}()

		if m.OpenErr != nil {
			yield(format.Fragment{}, format.NewDecodeError(m.ContentType, m.OpenErr))
			return
		}

		for i, step := range m.steps {
			m.mu.Lock()
			m.extractions++
			m.mu.Unlock()

			switch {
			case step.Err != nil:
				yield(format.Fragment{}, step.Err)
				return
			case step.Skip:
				continue
			}
			if !yield(format.Fragment{Text: step.Text, Source: i + 1}, nil) {
				return
			}
		}
	}
}

// Calls returns how many times Ingest was invoked.
func (m *MockAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Runs returns how many times a returned sequence was started.
func (m *MockAdapter) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

// Extractions returns the number of source units decoded so far.
func (m *MockAdapter) Extractions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extractions
}

// Releases returns how many runs have released their resources.
func (m *MockAdapter) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// Payloads returns the payloads passed to Ingest, in call order.
func (m *MockAdapter) Payloads() []core.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Payload(nil), m.payloads...)
}
