package tabula

import (
	"encoding/json"
	"errors"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// Toolkit exposes the session operations as JSON payloads, the shape a tool
// host hands to an agent. Operation failures are encoded into the payload
// under "error" rather than returned, so callers always get a document;
// the error return covers serialization only.
type Toolkit struct {
	session *Session
}

// NewToolkit wraps a session.
func NewToolkit(s *Session) *Toolkit {
	return &Toolkit{session: s}
}

// Session returns the underlying session.
func (t *Toolkit) Session() *Session { return t.session }

// errorPayload is the wire form of a failed operation.
type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func encode(result any, err error) (string, error) {
	doc := map[string]any{"ok": err == nil}
	if err != nil {
		p := errorPayload{Message: err.Error()}
		var te *taberr.Error
		if errors.As(err, &te) {
			p.Code = string(te.GetCode())
			p.Message = te.GetMessage()
			if ctx := te.GetContext(); len(ctx) > 0 {
				p.Context = ctx
			}
		}
		doc["error"] = p
	} else if result != nil {
		doc["result"] = result
	}

	data, mErr := json.MarshalIndent(doc, "", "  ")
	if mErr != nil {
		return "", mErr
	}
	return string(data), nil
}

// LoadDataset loads a named dataset.
func (t *Toolkit) LoadDataset(name string) (string, error) {
	info, err := t.session.LoadDataset(name)
	return encode(info, err)
}

// GetDatasetInfo summarizes the live dataset.
func (t *Toolkit) GetDatasetInfo() (string, error) {
	info, err := t.session.DatasetInfo()
	return encode(info, err)
}

// ExecuteCode runs analysis code against the live dataset.
func (t *Toolkit) ExecuteCode(code string) (string, error) {
	res, err := t.session.ExecuteCode(code)
	return encode(res, err)
}

// CreateVisualization runs visualization code and requires a figure.
func (t *Toolkit) CreateVisualization(code string) (string, error) {
	res, err := t.session.CreateVisualization(code)
	return encode(res, err)
}

// CreateChart renders a canned chart of the live dataset.
func (t *Toolkit) CreateChart(chartType, column string) (string, error) {
	res, err := t.session.Chart(chartType, column)
	return encode(res, err)
}

// GetExecutionHistory returns the recorded executions with the chain's
// merkle root.
func (t *Toolkit) GetExecutionHistory() (string, error) {
	entries := t.session.History()
	root, err := t.session.HistoryRoot()
	if err != nil {
		return encode(nil, err)
	}
	return encode(map[string]any{
		"entries": entries,
		"count":   len(entries),
		"root":    root,
	}, nil)
}

// ResetDataset reloads the live dataset and clears the history.
func (t *Toolkit) ResetDataset() (string, error) {
	info, err := t.session.Reset()
	if err != nil {
		return encode(nil, err)
	}
	if info == nil {
		return encode(map[string]any{"cleared": true}, nil)
	}
	return encode(info, nil)
}
