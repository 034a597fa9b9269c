package nlp

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/clauseguard/internal/cache"
	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/util"
	"github.com/sashabaranov/go-openai"
)

// EmbeddingConfig configures the OpenAI-compatible embedding backend
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
}

// Embedding scores texts by cosine similarity of their embedding vectors.
// Vectors are memoized in a cache keyed by model and text.
type Embedding struct {
	client *openai.Client
	model  openai.EmbeddingModel
	cache  cache.Cache
	log    logging.Logger
}

// NewEmbedding creates the embedding backend. A nil cache disables memoization.
func NewEmbedding(cfg EmbeddingConfig, c cache.Cache, log logging.Logger) (*Embedding, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding backend requires an API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy)

	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = openai.SmallEmbedding3
	}
	if c == nil {
		c = cache.NopCache{}
	}

	return &Embedding{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		cache:  c,
		log:    logging.OrNop(log).Named("embedding"),
	}, nil
}

// Similarity embeds both texts (one request for the uncached ones) and
// returns their cosine similarity clamped to [0,1]
func (e *Embedding) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecs, err := e.Embed(ctx, a, b)
	if err != nil {
		return 0, err
	}
	return clamp01(Cosine(vecs[0], vecs[1])), nil
}

// Embed returns one vector per input, in input order
func (e *Embedding) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, t := range texts {
		var vec []float32
		if cache.GetJSON(e.cache, e.key(t), &vec) && len(vec) > 0 {
			out[i] = vec
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: missing,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(missing) {
		return nil, fmt.Errorf("create embeddings: got %d vectors for %d inputs", len(resp.Data), len(missing))
	}

	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(missing) {
			return nil, fmt.Errorf("create embeddings: vector index %d out of range", d.Index)
		}
		i := missingIdx[d.Index]
		out[i] = d.Embedding
		if err := cache.SetJSON(e.cache, e.key(texts[i]), d.Embedding, 0); err != nil {
			e.log.Debug("cache embedding failed", logging.Err(err))
		}
	}

	e.log.Debug("embedded texts",
		logging.Int("requested", len(missing)),
		logging.Int("cached", len(texts)-len(missing)))
	return out, nil
}

func (e *Embedding) key(text string) string {
	return cache.Key("embed", string(e.model), text)
}
