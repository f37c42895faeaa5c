package tfidf

import (
	_ "embed"
	"math"
	"strings"
	"sync"

	"grade_desk/internal/shingle"
)

//go:embed stopwords.txt
var stopwordData string

var stopwordsOnce sync.Once
var stopwords map[string]struct{}

func isStopword(token string) bool {
	stopwordsOnce.Do(func() {
		lines := strings.Split(stopwordData, "\n")
		stopwords = make(map[string]struct{}, len(lines))
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" {
				stopwords[line] = struct{}{}
			}
		}
	})
	_, ok := stopwords[token]
	return ok
}

// Vector is a sparse TF-IDF vector over a batch-local vocabulary.
type Vector map[int]float64

// Vectors builds TF-IDF vectors for the texts. The vocabulary is derived
// solely from this batch, with English stop-words removed; nothing is
// shared across batches.
func Vectors(texts []string) []Vector {
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(texts))
	for i, text := range texts {
		tf := make(map[int]int)
		for _, tok := range shingle.Tokenize(text) {
			if isStopword(tok) {
				continue
			}
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			tf[idx]++
		}
		counts[i] = tf
	}

	df := make([]int, len(vocab))
	for _, tf := range counts {
		for idx := range tf {
			df[idx]++
		}
	}
	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		if d > 0 {
			idf[i] = math.Log(n/float64(d)) + 1.0
		}
	}

	vectors := make([]Vector, len(texts))
	for i, tf := range counts {
		vec := make(Vector, len(tf))
		for idx, count := range tf {
			vec[idx] = float64(count) * idf[idx]
		}
		vectors[i] = vec
	}
	return vectors
}

// Cosine returns the cosine similarity of two sparse vectors; zero vectors
// compare as 0.
func Cosine(a, b Vector) float64 {
	var dot, normA, normB float64
	for i, va := range a {
		if vb, ok := b[i]; ok {
			dot += va * vb
		}
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Matrix returns the full pairwise cosine similarity matrix for the texts.
func Matrix(texts []string) [][]float64 {
	vectors := Vectors(texts)
	sim := make([][]float64, len(vectors))
	for i := range vectors {
		sim[i] = make([]float64, len(vectors))
	}
	for i := range vectors {
		sim[i][i] = 1
		for j := i + 1; j < len(vectors); j++ {
			s := Cosine(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}
