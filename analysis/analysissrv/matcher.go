package analysissrv

import (
	"context"
	"math"
	"sort"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/pkg/logx"
	"github.com/resumatch/resumatch/vocabulary"
)

// DefaultSimilarityThreshold is the minimum cosine similarity for a
// resume skill to satisfy a job description requirement without exact
// key equality.
const DefaultSimilarityThreshold = 0.80

// Matcher partitions canonical skill sets. Exact key equality first,
// then semantic promotion over embedding vectors for what remains.
type Matcher struct {
	index     vocabulary.VectorIndex
	embedder  analysis.Embedder
	threshold float64
}

func NewMatcher(index vocabulary.VectorIndex, embedder analysis.Embedder, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &Matcher{
		index:     index,
		embedder:  embedder,
		threshold: threshold,
	}
}

// Match computes the partition of the job description's keys against
// the resume's keys. Resume keys are not consumed one-to-one: one key
// may satisfy its own exact requirement and any number of near-synonym
// requirements besides.
func (m *Matcher) Match(ctx context.Context, resumeKeys, jdKeys []kernel.SkillKey) (*analysis.MatchResult, error) {
	resumeSet := toSet(resumeKeys)

	result := &analysis.MatchResult{
		Matched: []kernel.SkillKey{},
		Missing: []kernel.SkillKey{},
		Extra:   []kernel.SkillKey{},
	}

	var unresolved []kernel.SkillKey
	for _, jd := range dedupeSorted(jdKeys) {
		if _, ok := resumeSet[jd]; ok {
			result.Matched = append(result.Matched, jd)
		} else {
			unresolved = append(unresolved, jd)
		}
	}

	exactMatched := toSet(result.Matched)
	candidates := dedupeSorted(resumeKeys)

	absorbed := make(map[kernel.SkillKey]struct{})
	for _, jd := range unresolved {
		resumeKey, sim, err := m.bestCandidate(ctx, jd, candidates)
		if err != nil {
			return nil, err
		}
		if resumeKey.IsEmpty() || sim < m.threshold {
			result.Missing = append(result.Missing, jd)
			continue
		}
		result.Matched = append(result.Matched, jd)
		result.SemanticMatches = append(result.SemanticMatches, analysis.SemanticMatch{
			RequiredKey: jd,
			ResumeKey:   resumeKey,
			Similarity:  round4(sim),
		})
		absorbed[resumeKey] = struct{}{}
	}

	for _, k := range candidates {
		if _, ok := exactMatched[k]; ok {
			continue
		}
		if _, used := absorbed[k]; !used {
			result.Extra = append(result.Extra, k)
		}
	}

	sortKeys(result.Matched)
	sortKeys(result.Missing)
	sortKeys(result.Extra)
	return result, nil
}

// bestCandidate returns the resume key closest to the requirement.
// Candidates whose vector cannot be obtained are skipped; ties break
// on key order so reruns stay stable.
func (m *Matcher) bestCandidate(ctx context.Context, jd kernel.SkillKey, candidates []kernel.SkillKey) (kernel.SkillKey, float64, error) {
	jdVec, err := m.vectorFor(ctx, jd)
	if err != nil {
		return "", 0, err
	}
	if jdVec == nil {
		return "", 0, nil
	}

	var (
		bestKey kernel.SkillKey
		bestSim float64
	)
	for _, cand := range candidates {
		candVec, err := m.vectorFor(ctx, cand)
		if err != nil {
			return "", 0, err
		}
		if candVec == nil {
			continue
		}
		sim := cosineSimilarity(jdVec, candVec)
		if sim > bestSim || (sim == bestSim && bestKey != "" && cand < bestKey) {
			bestKey = cand
			bestSim = sim
		}
	}
	return bestKey, bestSim, nil
}

// vectorFor resolves a skill key to its embedding: the prebuilt index
// for vocabulary keys, the embedder for everything else. A nil vector
// with nil error means the key cannot take part in semantic matching.
func (m *Matcher) vectorFor(ctx context.Context, key kernel.SkillKey) ([]float32, error) {
	vec, err := m.index.Lookup(ctx, string(key), vocabulary.KindSkill)
	if err == nil {
		return vec, nil
	}
	if !vocabulary.IsNotIndexed(err) {
		return nil, err
	}

	if m.embedder == nil {
		return nil, nil
	}
	vec, err = m.embedder.GenerateEmbedding(ctx, string(key))
	if err != nil {
		logx.Warnf("Embedding unavailable for %q, skipping semantic match: %v", key, err)
		return nil, nil
	}
	return vec, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func toSet(keys []kernel.SkillKey) map[kernel.SkillKey]struct{} {
	set := make(map[kernel.SkillKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func dedupeSorted(keys []kernel.SkillKey) []kernel.SkillKey {
	set := toSet(keys)
	out := make([]kernel.SkillKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}

func sortKeys(keys []kernel.SkillKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
