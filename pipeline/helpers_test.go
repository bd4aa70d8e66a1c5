package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/spetersoncode/finsight/document"
)

// counter is a Generator that records its calls.
type counter struct {
	mu     sync.Mutex
	out    string
	err    error
	inputs []map[string]string
}

func (c *counter) Generate(_ context.Context, inputs map[string]string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, inputs)
	if c.err != nil {
		return "", c.err
	}
	return c.out, nil
}

func (c *counter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

func (c *counter) last() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inputs) == 0 {
		return nil
	}
	return c.inputs[len(c.inputs)-1]
}

// fixedRetriever returns its documents, at most k of them.
type fixedRetriever struct {
	docs  []document.Document
	calls int
	k     int
}

func (r *fixedRetriever) SimilaritySearch(_ context.Context, _ string, k int) []document.Document {
	r.calls++
	r.k = k
	if len(r.docs) > k {
		return r.docs[:k]
	}
	return r.docs
}

// docs returns n documents named after sources, cycling through them.
func docs(n int, sources ...string) []document.Document {
	out := make([]document.Document, n)
	for i := range out {
		src := ""
		if len(sources) > 0 {
			src = sources[i%len(sources)]
		}
		out[i] = document.Document{
			PageContent: fmt.Sprintf("chunk %d", i),
			Metadata:    document.Metadata{Source: src, Type: "pdf", Page: document.Page(i + 1)},
		}
	}
	return out
}

type staticLister []document.Document

func (l staticLister) Documents() []document.Document { return l }
