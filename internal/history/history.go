// Package history keeps the append-only record of successful executions.
// Each entry's checksum is computed as sha256(code + output + prev_checksum),
// creating a hash chain: rewriting any recorded execution invalidates every
// later checksum. A merkle root over the chain gives a single audit value.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/cbergoon/merkletree"
	"github.com/google/uuid"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// GenesisChecksum seeds the chain before any entry exists.
const GenesisChecksum = "genesis"

// Entry is one recorded execution. Code and Output are stored verbatim.
type Entry struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Output       string    `json:"output"`
	Dataset      string    `json:"dataset,omitempty"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Checksum     string    `json:"checksum"`
	PrevChecksum string    `json:"prev_checksum"`
}

// Ledger is the append-only execution history. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	tail    string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{tail: GenesisChecksum}
}

// Append records a successful execution and returns the stored entry.
func (l *Ledger) Append(code, output, dataset, artifactPath string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		ID:           uuid.NewString(),
		Code:         code,
		Output:       output,
		Dataset:      dataset,
		ArtifactPath: artifactPath,
		Timestamp:    time.Now().UTC(),
		PrevChecksum: l.tail,
	}
	e.Checksum = computeChecksum(e.Code, e.Output, e.PrevChecksum)

	l.entries = append(l.entries, e)
	l.tail = e.Checksum
	return e
}

// All returns a snapshot of the entries in append order.
func (l *Ledger) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear discards every entry and resets the chain to genesis.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.tail = GenesisChecksum
}

// Verify walks the chain and reports the first broken link.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := GenesisChecksum
	for i, e := range l.entries {
		if e.PrevChecksum != prev {
			return taberr.New(taberr.ErrHistoryIntegrity, "history chain broken").
				With("index", i).
				With("expected_prev", prev).
				With("got_prev", e.PrevChecksum)
		}
		want := computeChecksum(e.Code, e.Output, e.PrevChecksum)
		if e.Checksum != want {
			return taberr.New(taberr.ErrHistoryIntegrity, "history entry checksum mismatch").
				With("index", i).
				With("id", e.ID)
		}
		prev = e.Checksum
	}
	return nil
}

// Root computes the merkle root over the entry checksums. An empty ledger
// has the hash of the genesis checksum as its root.
func (l *Ledger) Root() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		h := sha256.Sum256([]byte(GenesisChecksum))
		return hex.EncodeToString(h[:]), nil
	}

	contents := make([]merkletree.Content, len(l.entries))
	for i, e := range l.entries {
		contents[i] = entryContent{checksum: e.Checksum}
	}
	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return "", taberr.Wrap(taberr.ErrHistoryIntegrity, err, "cannot build history merkle tree")
	}
	return hex.EncodeToString(tree.MerkleRoot()), nil
}

// entryContent implements merkletree.Content over an entry checksum.
type entryContent struct {
	checksum string
}

func (c entryContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(c.checksum))
	return h[:], nil
}

func (c entryContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(entryContent)
	if !ok {
		return false, nil
	}
	return c.checksum == o.checksum, nil
}

// computeChecksum links an entry to its predecessor.
func computeChecksum(code, output, prev string) string {
	h := sha256.New()
	h.Write([]byte(code))
	h.Write([]byte(output))
	h.Write([]byte(prev))
	return hex.EncodeToString(h.Sum(nil))
}
