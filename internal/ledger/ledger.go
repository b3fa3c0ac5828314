package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Ledger records symbols that have already been bought so they are never
// bought twice. Backing store is a flat UTF-8 file, one uppercase symbol per
// line, append-only. The file is loaded once at Open and never rewritten.
type Ledger struct {
	path string

	mu   sync.Mutex
	seen map[string]struct{}
}

// Open loads the ledger file into memory. A missing file is an empty ledger,
// not an error.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, seen: map[string]struct{}{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		sym := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if sym == "" {
			continue
		}
		l.seen[sym] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return l, nil
}

func (l *Ledger) Contains(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[symbol]
	return ok
}

// Record marks a symbol as traded. Idempotent: a symbol already present is a
// no-op and the file gains no extra line. The appended line is flushed before
// Record returns.
func (l *Ledger) Record(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("empty symbol")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[symbol]; ok {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(symbol + "\n"); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		return err
	}

	l.seen[symbol] = struct{}{}
	return nil
}

// Size reports how many symbols are recorded.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
