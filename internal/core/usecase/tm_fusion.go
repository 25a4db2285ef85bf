package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

const defaultTMCandidateLimit = 10

// HybridTMSearcher queries lexical and semantic TM backends in parallel and
// merges their candidates. One backend failing degrades to the other; the
// lookup fails only when every backend fails.
type HybridTMSearcher struct {
	lexical  ports.TMSearcher
	semantic ports.TMSearcher
	limit    int
}

func NewHybridTMSearcher(lexical, semantic ports.TMSearcher, limit int) *HybridTMSearcher {
	if limit <= 0 {
		limit = defaultTMCandidateLimit
	}
	return &HybridTMSearcher{lexical: lexical, semantic: semantic, limit: limit}
}

func (h *HybridTMSearcher) FindTMMatches(ctx context.Context, query domain.TMQuery) ([]domain.TMMatch, error) {
	var (
		lexical, semantic       []domain.TMMatch
		lexicalErr, semanticErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	if h.lexical != nil {
		g.Go(func() error {
			lexical, lexicalErr = h.lexical.FindTMMatches(gctx, query)
			return nil
		})
	} else {
		lexicalErr = errors.New("lexical tm backend not configured")
	}
	if h.semantic != nil {
		g.Go(func() error {
			semantic, semanticErr = h.semantic.FindTMMatches(gctx, query)
			return nil
		})
	} else {
		semanticErr = errors.New("semantic tm backend not configured")
	}
	_ = g.Wait()

	if lexicalErr != nil && semanticErr != nil {
		return nil, errors.Join(lexicalErr, semanticErr)
	}
	if lexicalErr != nil && h.lexical != nil {
		slog.Warn("tm_backend_degraded", "backend", "lexical", "error", lexicalErr)
	}
	if semanticErr != nil && h.semantic != nil {
		slog.Warn("tm_backend_degraded", "backend", "semantic", "error", semanticErr)
	}

	return trimMatches(mergeTMMatches(lexical, semantic), h.limit), nil
}

// mergeTMMatches keeps one candidate per (source, target, phrase) with the
// highest score seen across lists.
func mergeTMMatches(lists ...[]domain.TMMatch) []domain.TMMatch {
	acc := make(map[string]domain.TMMatch)
	order := make([]string, 0)
	for _, list := range lists {
		for _, m := range list {
			key := tmMatchKey(m)
			current, ok := acc[key]
			if !ok {
				order = append(order, key)
				acc[key] = m
				continue
			}
			acc[key] = preferStrongerMatch(current, m)
		}
	}

	out := make([]domain.TMMatch, 0, len(acc))
	for _, key := range order {
		out = append(out, acc[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return len(out[i].SourceText) > len(out[j].SourceText)
	})
	return out
}

func trimMatches(matches []domain.TMMatch, limit int) []domain.TMMatch {
	if limit <= 0 || len(matches) <= limit {
		return matches
	}
	return matches[:limit]
}

func tmMatchKey(m domain.TMMatch) string {
	kind := "segment"
	if m.Phrase {
		kind = "phrase"
	}
	return kind + "|" + strings.ToLower(strings.TrimSpace(m.SourceText)) + "|" + strings.TrimSpace(m.TargetText)
}

func preferStrongerMatch(current, candidate domain.TMMatch) domain.TMMatch {
	if candidate.MatchScore > current.MatchScore {
		if candidate.Domain == "" {
			candidate.Domain = current.Domain
		}
		return candidate
	}
	if current.Domain == "" && candidate.Domain != "" {
		current.Domain = candidate.Domain
	}
	return current
}
