package analysis

import (
	"AgroTech-Vision/domain"
	"sync"

	"github.com/google/uuid"
)

type (
	// PreviewStore hands out displayable references to selected images. Every acquired
	// id must be released exactly once.
	PreviewStore interface {
		Acquire(file SelectedFile) string
		Get(id string) (Preview, error)
		Release(id string)
		URL(id string) string
		Len() int
	}

	Preview struct {
		MimeType string
		Data     []byte
	}

	memoryPreviewStore struct {
		mu        sync.RWMutex
		urlPrefix string
		previews  map[string]Preview
	}
)

// NewPreviewStore keeps previews in memory; URL(id) is urlPrefix + id.
func NewPreviewStore(urlPrefix string) PreviewStore {
	return &memoryPreviewStore{
		urlPrefix: urlPrefix,
		previews:  map[string]Preview{},
	}
}

func (p *memoryPreviewStore) Acquire(file SelectedFile) string {
	id := uuid.NewString()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.previews[id] = Preview{MimeType: file.MimeType, Data: file.Data}
	return id
}

func (p *memoryPreviewStore) Get(id string) (Preview, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	preview, ok := p.previews[id]
	if !ok {
		return Preview{}, domain.ErrPreviewNotFound
	}
	return preview, nil
}

func (p *memoryPreviewStore) Release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.previews, id)
}

func (p *memoryPreviewStore) URL(id string) string {
	if id == "" {
		return ""
	}
	return p.urlPrefix + id
}

func (p *memoryPreviewStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.previews)
}
