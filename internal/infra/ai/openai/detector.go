package openai

import (
	"context"
	"strings"
	"sync"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/sentinel"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/ai/prompt"
)

const defaultCacheSize = 128

// Detector asks the model which substrings of a text are secrets and maps
// them back to positions. Replies are cached per text.
type Detector struct {
	Client    *Client
	CacheSize int

	mu    sync.Mutex
	cache map[string][]sentinel.Finding
	order []string
}

func NewDetector(c *Client) *Detector {
	return &Detector{Client: c, CacheSize: defaultCacheSize}
}

func (d *Detector) Detect(ctx context.Context, text string) ([]sentinel.Finding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if fs, ok := d.cached(text); ok {
		return fs, nil
	}

	reply, err := d.Client.chat(ctx, d.Client.request(prompt.GetDetectionPrompt(text), detectMaxTokens))
	if err != nil {
		return nil, err
	}
	secrets, err := prompt.ParseJSONList(reply)
	if err != nil {
		return nil, err
	}
	kept := secrets[:0]
	for _, s := range secrets {
		if s == "" || sentinel.TokenPattern.MatchString(s) {
			continue
		}
		kept = append(kept, s)
	}
	fs := sentinel.FindPositions(text, kept)
	for i := range fs {
		fs[i].Name = "llm"
	}
	d.store(text, fs)
	return fs, nil
}

func (d *Detector) cached(text string) ([]sentinel.Finding, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fs, ok := d.cache[text]
	return fs, ok
}

func (d *Detector) store(text string, fs []sentinel.Finding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.CacheSize <= 0 {
		return
	}
	if d.cache == nil {
		d.cache = make(map[string][]sentinel.Finding)
	}
	if _, ok := d.cache[text]; !ok {
		d.order = append(d.order, text)
	}
	d.cache[text] = fs
	for len(d.order) > d.CacheSize {
		delete(d.cache, d.order[0])
		d.order = d.order[1:]
	}
}
