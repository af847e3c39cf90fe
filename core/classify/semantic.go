package classify

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/siherrmann/combiner/core/tables"
	"github.com/siherrmann/combiner/model"
)

// Embedder turns a text into an embedding vector
type Embedder func(text string) ([]float32, error)

// SemanticClassifier falls back to embedding similarity against domain
// prototypes for labels the static table does not know.
type SemanticClassifier struct {
	embed      Embedder
	prototypes map[model.Domain][][]float32
	threshold  float32
	log        *slog.Logger
}

// NewSemanticClassifier embeds every domain prototype phrase once.
// Labels scoring below threshold against all prototypes stay DomainUnknown.
func NewSemanticClassifier(embed Embedder, threshold float64, logger *slog.Logger) (*SemanticClassifier, error) {
	if embed == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	prototypes := make(map[model.Domain][][]float32)
	for domain, phrases := range tables.DomainPrototypes() {
		for _, phrase := range phrases {
			embedding, err := embed(phrase)
			if err != nil {
				return nil, fmt.Errorf("failed to embed prototype %q: %w", phrase, err)
			}
			prototypes[domain] = append(prototypes[domain], embedding)
		}
	}

	return &SemanticClassifier{
		embed:      embed,
		prototypes: prototypes,
		threshold:  float32(threshold),
		log:        logger,
	}, nil
}

// Classify returns the static domain of label if known, otherwise the
// domain whose prototypes are most similar to the label's embedding.
func (c *SemanticClassifier) Classify(label string) model.Domain {
	if d := Domain(label); d != model.DomainUnknown {
		return d
	}

	embedding, err := c.embed(label)
	if err != nil {
		c.log.Debug("Semantic classification failed", slog.String("label", label), slog.String("error", err.Error()))
		return model.DomainUnknown
	}

	best := model.DomainUnknown
	bestScore := c.threshold
	// Iterate in a fixed order so ties resolve deterministically
	for _, domain := range model.Domains() {
		for _, prototype := range c.prototypes[domain] {
			if score := cosineSimilarity(embedding, prototype); score > bestScore {
				best = domain
				bestScore = score
			}
		}
	}

	return best
}

// cosineSimilarity calculates the cosine similarity between two embedding vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
