package search

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Score weights. Occurrences count once per keyword per line; heading or
// title lines weigh triple; path relevance doubles; distinct matched
// keywords weigh five each; matching every requested keyword adds a
// flat bonus.
const (
	weightOccurrence   = 1
	weightTitleLine    = 3
	weightPath         = 2
	weightKeyword      = 5
	bonusAllKeywords   = 10
	relevanceReference = 2
	relevanceKeyword   = 3
	relevanceVocab     = 1
)

// referenceDir is the top-level directory of reference documentation.
const referenceDir = "reference"

// domainVocabulary lists directories whose documents get a flat path
// relevance boost.
var domainVocabulary = []string{
	"agents", "teams", "workflows", "tools", "memory",
	"knowledge", "models", "agentos", "integrations",
}

// FileScore accumulates match data for one file during a single ranking
// computation.
type FileScore struct {
	Path          string
	Matched       map[string]struct{}
	Occurrences   int
	TitleLines    int
	PathRelevance int
}

// Final computes the composite ranking score.
func (s *FileScore) Final(totalKeywords int) int {
	score := s.Occurrences*weightOccurrence +
		s.TitleLines*weightTitleLine +
		s.PathRelevance*weightPath +
		len(s.Matched)*weightKeyword
	if len(s.Matched) == totalKeywords {
		score += bonusAllKeywords
	}
	return score
}

// Engine ranks documents against keyword sets.
type Engine struct {
	index *Index
}

// NewEngine creates a ranking engine backed by the given index.
func NewEngine(index *Index) *Engine {
	return &Engine{index: index}
}

// Index returns the backing index, for invalidation hooks.
func (e *Engine) Index() *Index {
	return e.index
}

// Rank scores every document under root against keywords and returns up
// to limit relative paths in descending score order. Ties break by
// lexicographic path so results are reproducible across platforms.
// Files whose content matches no keyword are excluded entirely.
func (e *Engine) Rank(keywords []string, root string, limit int) []string {
	if len(keywords) == 0 {
		return nil
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	paths := e.index.Paths(root)
	scores := make([]*FileScore, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range paths {
		g.Go(func() error {
			scores[i] = scoreFile(root, rel, lowered)
			return nil
		})
	}
	_ = g.Wait()

	matched := scores[:0]
	for _, s := range scores {
		if s != nil {
			matched = append(matched, s)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		si, sj := matched[i].Final(len(lowered)), matched[j].Final(len(lowered))
		if si != sj {
			return si > sj
		}
		return matched[i].Path < matched[j].Path
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]string, len(matched))
	for i, s := range matched {
		out[i] = s.Path
	}
	return out
}

// scoreFile reads one document and accumulates its match data. Returns
// nil when the file is unreadable or matches no keyword.
func scoreFile(root, rel string, keywords []string) *FileScore {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil
	}

	fs := &FileScore{
		Path:          rel,
		Matched:       make(map[string]struct{}),
		PathRelevance: pathRelevance(rel, keywords),
	}

	for _, line := range strings.Split(string(data), "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			fs.Matched[kw] = struct{}{}
			fs.Occurrences++
			if strings.HasPrefix(line, "#") || strings.Contains(lower, "title") {
				fs.TitleLines++
			}
		}
	}

	if len(fs.Matched) == 0 {
		return nil
	}
	return fs
}

// pathRelevance scores a document from its relative path alone:
// reference docs, keyword substrings of the path, and the fixed domain
// vocabulary each contribute.
func pathRelevance(rel string, keywords []string) int {
	relevance := 0
	lower := strings.ToLower(rel)

	if strings.HasPrefix(lower, referenceDir+"/") {
		relevance += relevanceReference
	}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			relevance += relevanceKeyword
		}
	}
	for _, dir := range domainVocabulary {
		if strings.Contains(lower, dir) {
			relevance += relevanceVocab
			break
		}
	}
	return relevance
}
