package sniffer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiscoveryLog is the human-readable append-only record of every token the
// sniffer has announced, one line per discovery.
type DiscoveryLog struct {
	path string
	mu   sync.Mutex
}

func NewDiscoveryLog(path string) *DiscoveryLog {
	return &DiscoveryLog{path: path}
}

// Append writes one discovery line:
//
//	[NEW] WIF – dogwifhat | 7xKX...  (2026-08-31T12:00:00Z UTC)
func (d *DiscoveryLog) Append(l Listing) error {
	line := fmt.Sprintf("[NEW] %s – %s | %s  (%s UTC)\n",
		l.Symbol, l.Name, l.Identifier, l.ObservedAt.UTC().Format(time.RFC3339))

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}
