package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"mediassist-server/internal/models"
)

// pendingAnalysis is a post-processed analysis that has not been persisted
// yet, together with the latency of the call that produced it.
type pendingAnalysis struct {
	analysis models.CaseAnalysis
	model    string
	latency  time.Duration
}

// analysisCache holds analyses until their case is stored. A nil cache
// never hits.
type analysisCache struct {
	lru *expirable.LRU[string, pendingAnalysis]
}

func newAnalysisCache(size int, ttl time.Duration) *analysisCache {
	if size <= 0 {
		return nil
	}
	return &analysisCache{lru: expirable.NewLRU[string, pendingAnalysis](size, nil, ttl)}
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func (c *analysisCache) get(key string) (pendingAnalysis, bool) {
	if c == nil {
		return pendingAnalysis{}, false
	}
	return c.lru.Get(key)
}

func (c *analysisCache) add(key string, p pendingAnalysis) {
	if c == nil {
		return
	}
	c.lru.Add(key, p)
}

func (c *analysisCache) remove(key string) {
	if c == nil {
		return
	}
	c.lru.Remove(key)
}
