package media

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Uploader recording every call.
type Memory struct {
	mu        sync.Mutex
	Uploads   []string // folders in call order
	Destroyed []string
	Err       error // returned by every call when set
}

// Upload implements Uploader.
func (m *Memory) Upload(_ context.Context, src any, folder string) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.Uploads = append(m.Uploads, folder)
	id := fmt.Sprintf("%s/asset-%d", folder, len(m.Uploads))

	if s, ok := src.(string); ok && !IsDataURI(s) {
		return &Asset{URL: s}, nil
	}

	return &Asset{URL: "https://media.test/" + id + ".png", PublicID: id, Format: "png"}, nil
}

// Destroy implements Uploader.
func (m *Memory) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Destroyed = append(m.Destroyed, publicID)

	return nil
}
