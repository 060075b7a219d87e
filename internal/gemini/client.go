// Package gemini wraps the Google generative-language API behind the small
// Generator interface the workflow consumes. Failures are opaque to callers;
// the context cache is a best-effort prompt-size optimization and never a
// functional dependency.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/jmcalla/lessonbridge-backend/internal/platform/envutil"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// Generator is the single remote-generation operation the workflow needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// The cached context pairs the curriculum document with a short
// differentiation primer so follow-up prompts can stay lean.
const differentiationGuide = `DIFFERENTIATION BEST PRACTICES AND GUIDELINES:

When creating differentiation suggestions, consider these research-based strategies:

Universal Design for Learning (UDL) principles:
1. Multiple Means of Representation - present information in multiple formats (visual, auditory, text)
2. Multiple Means of Action and Expression - allow students to demonstrate learning in various ways
3. Multiple Means of Engagement - provide multiple pathways to motivate and engage learners

Common accommodation categories: extended time, chunked instructions, scaffolded
templates, glossaries for domain vocabulary, reduced problem sets that preserve
the target skill, alternate response formats, and explicit worked examples.`

const systemInstruction = "You are an expert in educational differentiation for students with IEPs, 504 plans, and special accommodations. Ground every suggestion in the supplied curriculum standards and differentiation guidelines."

// Cached content below this size is rejected upstream (minimum 4096 tokens,
// roughly 4 characters per token), so don't bother creating one.
const minCacheChars = 4096 * 4

type Client struct {
	client   *genai.Client
	model    string
	cacheTTL time.Duration
	cache    *ContextCache
	log      *logger.Logger
}

// NewClient builds the Gemini-backed generator. standardsDoc, when large
// enough, is provisioned as remote cached content with a multi-hour window.
func NewClient(ctx context.Context, log *logger.Logger, standardsDoc string) (*Client, error) {
	serviceLog := log.With("service", "GeminiClient")

	apiKey := envutil.Str("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c := &Client{
		client:   cl,
		model:    envutil.Str("GEMINI_MODEL", "gemini-2.0-flash"),
		cacheTTL: envutil.Duration("CURRICULUM_CACHE_TTL", 6*time.Hour),
		log:      serviceLog,
	}

	if len(standardsDoc)+len(differentiationGuide) >= minCacheChars {
		c.cache = NewContextCache(c.cacheCreator(standardsDoc))
	} else if standardsDoc != "" {
		serviceLog.Info("Standards document below cache minimum, caching disabled",
			"chars", len(standardsDoc))
	}

	return c, nil
}

func (c *Client) cacheCreator(standardsDoc string) CreateFunc {
	return func(ctx context.Context) (string, time.Time, error) {
		cached, err := c.client.Caches.Create(ctx, c.model, &genai.CreateCachedContentConfig{
			DisplayName:       "curriculum-standards",
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Contents: []*genai.Content{
				genai.NewContentFromText(standardsDoc+"\n\n"+differentiationGuide, genai.RoleUser),
			},
			TTL: c.cacheTTL,
		})
		if err != nil {
			c.log.Warn("Context cache creation failed, generating without it", "error", err)
			return "", time.Time{}, err
		}
		c.log.Info("Created curriculum context cache", "name", cached.Name)
		return cached.Name, cached.ExpireTime, nil
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	usedCache := false
	if c.cache != nil {
		if name, ok := c.cache.GetOrCreate(ctx); ok {
			cfg.CachedContent = name
			usedCache = true
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil && usedCache {
		// A stale handle must never block generation. Drop it and retry bare.
		c.cache.Invalidate()
		resp, err = c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{})
	}
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}
