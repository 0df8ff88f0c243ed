// Package textindex implements a small TF-IDF vector space for ranking course text.
//
// An Index is fitted once over a corpus snapshot and is immutable afterwards,
// so it can be shared by concurrent readers. There is no incremental update:
// a different corpus means a new Fit.
package textindex

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 1000

// minTokenLen is the shortest token kept by the tokenizer.
const minTokenLen = 2

// Option configures Fit.
type Option func(*options)

type options struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

// WithMaxFeatures caps the vocabulary at n terms. Non-positive values are ignored.
func WithMaxFeatures(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFeatures = n
		}
	}
}

// WithoutStopWords keeps every token, including common English words.
func WithoutStopWords() Option {
	return func(o *options) { o.stopWords = nil }
}

// Vector is a sparse L2-normalized term weight vector sorted by term id.
type Vector struct {
	ids     []int
	weights []float64
}

// Len returns the number of non-zero terms.
func (v Vector) Len() int { return len(v.ids) }

// IsZero reports whether the vector has no terms.
func (v Vector) IsZero() bool { return len(v.ids) == 0 }

// Index is a fitted TF-IDF model over a fixed corpus.
type Index struct {
	vocab     map[string]int
	idf       []float64
	docs      []Vector
	stopWords map[string]struct{}
}

// Fit tokenizes corpus, selects the vocabulary and computes document vectors.
//
// The vocabulary is the maxFeatures most frequent terms across the corpus,
// ties broken lexicographically. IDF is smoothed: ln((1+n)/(1+df)) + 1.
func Fit(corpus []string, opts ...Option) *Index {
	o := options{maxFeatures: DefaultMaxFeatures, stopWords: englishStopWords}
	for _, opt := range opts {
		opt(&o)
	}

	tokenized := make([][]string, len(corpus))
	total := map[string]int{}
	df := map[string]int{}
	for i, doc := range corpus {
		toks := tokenize(doc, o.stopWords)
		tokenized[i] = toks
		seen := map[string]struct{}{}
		for _, t := range toks {
			total[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > o.maxFeatures {
		terms = terms[:o.maxFeatures]
	}
	// Term ids follow lexical order so vectors are stable regardless of frequency ties.
	sort.Strings(terms)

	idx := &Index{
		vocab:     make(map[string]int, len(terms)),
		idf:       make([]float64, len(terms)),
		docs:      make([]Vector, len(corpus)),
		stopWords: o.stopWords,
	}
	n := float64(len(corpus))
	for id, t := range terms {
		idx.vocab[t] = id
		idx.idf[id] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	for i, toks := range tokenized {
		idx.docs[i] = idx.vectorize(toks)
	}
	return idx
}

// VocabularySize returns the number of terms in the index.
func (idx *Index) VocabularySize() int { return len(idx.idf) }

// Len returns the number of documents the index was fitted on.
func (idx *Index) Len() int { return len(idx.docs) }

// Query projects text into the fitted vector space. Out-of-vocabulary terms are ignored.
func (idx *Index) Query(text string) Vector {
	return idx.vectorize(tokenize(text, idx.stopWords))
}

// Doc returns the vector of the i-th corpus document.
func (idx *Index) Doc(i int) Vector { return idx.docs[i] }

// Similarities returns the cosine similarity of text to every document, in corpus order.
func (idx *Index) Similarities(text string) []float64 {
	q := idx.Query(text)
	out := make([]float64, len(idx.docs))
	if q.IsZero() {
		return out
	}
	for i, d := range idx.docs {
		out[i] = Similarity(q, d)
	}
	return out
}

// Similarity returns the cosine similarity of two normalized vectors, in [0, 1].
func Similarity(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.ids) && j < len(b.ids) {
		switch {
		case a.ids[i] == b.ids[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.ids[i] < b.ids[j]:
			i++
		default:
			j++
		}
	}
	// Rounding can push identical vectors slightly past 1.
	return math.Min(1, math.Max(0, dot))
}

func (idx *Index) vectorize(tokens []string) Vector {
	counts := map[int]float64{}
	for _, t := range tokens {
		if id, ok := idx.vocab[t]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	v := Vector{ids: make([]int, 0, len(counts)), weights: make([]float64, 0, len(counts))}
	for id := range counts {
		v.ids = append(v.ids, id)
	}
	sort.Ints(v.ids)

	var norm float64
	for _, id := range v.ids {
		w := counts[id] * idx.idf[id]
		v.weights = append(v.weights, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for k := range v.weights {
		v.weights[k] /= norm
	}
	return v
}

// Tokenize splits text into lower-case word tokens of two or more letters,
// digits or underscores, dropping English stop words.
func Tokenize(text string) []string {
	return tokenize(text, englishStopWords)
}

func tokenize(text string, stop map[string]struct{}) []string {
	var (
		out []string
		b   strings.Builder
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len([]rune(tok)) < minTokenLen {
			return
		}
		if _, ok := stop[tok]; ok {
			return
		}
		out = append(out, tok)
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
