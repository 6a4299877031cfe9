// Package tabula is the public API of the dataset analysis engine. A
// Session owns one live dataset and executes screened analysis code against
// it inside a restricted JavaScript sandbox, recording every successful
// execution in a tamper-evident history.
package tabula

import (
	"sync"
	"time"

	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/internal/history"
	"github.com/tabula-dev/tabula/internal/plot"
	"github.com/tabula-dev/tabula/internal/runtime"
	"github.com/tabula-dev/tabula/internal/screen"
	"github.com/tabula-dev/tabula/internal/taberr"
)

// Session is the analysis engine. All operations are serialized: at most
// one execution is in flight at any time.
type Session struct {
	mu sync.Mutex

	store    *dataset.Store
	loader   *dataset.Loader
	screener *screen.Screener
	sandbox  *runtime.Sandbox
	ledger   *history.Ledger

	artifactDir string
	logger      Logger
}

// NewSession creates a session with the builtin datasets and default limits.
func NewSession(opts ...Option) *Session {
	cfg := &Config{
		Timeout:   runtime.DefaultTimeout,
		MaxOutput: runtime.DefaultMaxOutput,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	loader := dataset.NewLoader()
	for name, src := range cfg.Datasets {
		loader.Register(name, src)
	}

	return &Session{
		store:    dataset.NewStore(),
		loader:   loader,
		screener: screen.New(cfg.ScreenTokens...),
		sandbox: runtime.NewSandbox(
			runtime.WithTimeout(cfg.Timeout),
			runtime.WithMaxOutput(cfg.MaxOutput),
		),
		ledger:      history.NewLedger(),
		artifactDir: cfg.ArtifactDir,
		logger:      cfg.Logger,
	}
}

// DatasetInfo summarizes the live dataset.
type DatasetInfo struct {
	dataset.Schema
	HistoryLen int `json:"history_len"`
}

// ExecResult is the outcome of a successful execution.
type ExecResult struct {
	ID        string         `json:"id"`
	Output    string         `json:"output"`
	Truncated bool           `json:"truncated,omitempty"`
	Value     any            `json:"value,omitempty"`
	Shape     [2]int         `json:"shape"`
	Artifact  *plot.Artifact `json:"artifact,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Datasets lists the loadable dataset names.
func (s *Session) Datasets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Names()
}

// LoadDataset loads a named dataset as the live dataset, replacing any
// previous one. History is preserved across loads; only Reset clears it.
func (s *Session) LoadDataset(name string) (*DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}
	s.store.Replace(name, frame)

	rows, cols := frame.Shape()
	s.logger.Printf("loaded dataset %q (%d rows, %d columns)", name, rows, cols)
	return s.info(true), nil
}

// DatasetInfo returns the schema summary of the live dataset, including
// descriptive statistics for numeric columns.
func (s *Session) DatasetInfo() (*DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Current(); err != nil {
		return nil, err
	}
	return s.info(true), nil
}

// info builds the summary; callers hold the lock and have checked the store.
func (s *Session) info(describe bool) *DatasetInfo {
	frame, _ := s.store.Current()
	return &DatasetInfo{
		Schema:     dataset.Summarize(s.store.Name(), frame, describe),
		HistoryLen: s.ledger.Len(),
	}
}

// ExecuteCode screens and runs analysis code against the live dataset.
// The stored dataset changes only when the code finishes without error:
// the sandbox works on a clone and the clone is committed on success.
// Failed executions leave both the dataset and the history untouched.
func (s *Session) ExecuteCode(code string) (*ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(code)
}

// execute is the locked execution path shared with CreateVisualization.
func (s *Session) execute(code string) (*ExecResult, error) {
	frame, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	if err := s.screener.Screen(code); err != nil {
		s.logger.Printf("execution rejected by screen: %v", err)
		return nil, err
	}

	res, err := s.sandbox.Execute(code, frame.Clone())
	if err != nil {
		s.logger.Printf("execution failed: %v", err)
		return nil, err
	}

	var artifact *plot.Artifact
	if res.Figure != nil {
		artifact, err = res.Figure.Save(s.artifactDir)
		if err != nil {
			return nil, err
		}
	}

	s.store.Commit(res.Frame)
	artifactPath := ""
	if artifact != nil {
		artifactPath = artifact.Path
	}
	entry := s.ledger.Append(code, res.Output, s.store.Name(), artifactPath)

	rows, cols := res.Frame.Shape()
	s.logger.Printf("execution %s ok in %s (%d rows, %d columns)", entry.ID, res.Duration, rows, cols)

	return &ExecResult{
		ID:        entry.ID,
		Output:    res.Output,
		Truncated: res.Truncated,
		Value:     res.Value,
		Shape:     [2]int{rows, cols},
		Artifact:  artifact,
		Duration:  res.Duration,
	}, nil
}

// CreateVisualization runs visualization code through the same screening
// and sandbox pipeline as ExecuteCode and requires it to produce a figure.
// A run that produces no figure fails with an artifact-capture error; the
// execution is still committed and recorded, since the code itself ran
// without error.
func (s *Session) CreateVisualization(code string) (*ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execute(code)
	if err != nil {
		return nil, err
	}
	if res.Artifact == nil {
		return nil, taberr.New(taberr.ErrArtifactCapture, "code produced no figure").
			WithHelp("call one of plot.scatter, plot.line, plot.histogram, plot.bar, or plot.heatmap")
	}
	return res, nil
}

// Chart renders a canned chart of the live dataset by generating the
// visualization code for a chart type and an optional column, then running
// it through CreateVisualization's pipeline.
func (s *Session) Chart(chartType, column string) (*ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	kind, err := plot.ParseKind(chartType)
	if err != nil {
		return nil, err
	}
	code, err := vizCode(kind, column, frame)
	if err != nil {
		return nil, err
	}

	res, err := s.execute(code)
	if err != nil {
		return nil, err
	}
	if res.Artifact == nil {
		return nil, taberr.New(taberr.ErrArtifactCapture, "chart produced no figure").
			With("type", chartType)
	}
	return res, nil
}

// History returns a snapshot of the recorded executions, oldest first.
func (s *Session) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.All()
}

// HistoryRoot returns the merkle root over the recorded executions.
func (s *Session) HistoryRoot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Root()
}

// VerifyHistory checks the hash chain of the recorded executions.
func (s *Session) VerifyHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Verify()
}

// Reset reloads the live dataset from its source and clears the history.
// With no dataset loaded it only clears the history.
func (s *Session) Reset() (*DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.store.Name()
	if name == "" {
		s.ledger.Clear()
		s.logger.Printf("reset: history cleared, no dataset loaded")
		return nil, nil
	}

	// Reload first: a failing source must leave both the live frame and
	// the history exactly as they were.
	frame, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}
	s.ledger.Clear()
	s.store.Replace(name, frame)
	s.logger.Printf("reset: dataset %q reloaded, history cleared", name)
	return s.info(true), nil
}
