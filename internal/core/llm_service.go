package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gwi.com/calorie-chat/internal/food"
)

const (
	defaultExtractionModelName = "gemini-1.5-flash-latest"

	extractionSystemInstruction = "You extract foods from a short description of what someone ate. " +
		"Return a JSON array with one object per food mentioned, in the order mentioned. " +
		"Each object has name (lower-case, singular), calories (integer kcal for one serving), " +
		"quantity (number of servings, default 1) and an optional unit. " +
		"Return an empty array if no food is mentioned. Do not add commentary."
)

// LLMService extracts foods with Gemini. It satisfies food.Extractor.
type LLMService struct {
	client *genai.Client
}

func NewLLMService(apiKey string) (*LLMService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client: client,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (s *LLMService) Extract(ctx context.Context, text string) ([]food.Item, error) {
	model := s.client.GenerativeModel(defaultExtractionModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractionSystemInstruction)},
	}

	temp := float32(0)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"calories": {Type: genai.TypeInteger},
					"quantity": {Type: genai.TypeNumber},
					"unit":     {Type: genai.TypeString},
				},
				Required: []string{"name", "calories", "quantity"},
			},
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini extraction request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates for extraction")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	return parseExtraction(responseText.String())
}

type extractedFood struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
}

// parseExtraction decodes the model's JSON array. Entries without a name or
// with negative values are dropped.
func parseExtraction(raw string) ([]food.Item, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var foods []extractedFood
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &foods); err != nil {
		return nil, fmt.Errorf("failed to parse gemini extraction JSON: %w", err)
	}

	items := make([]food.Item, 0, len(foods))
	for _, f := range foods {
		name := strings.ToLower(strings.TrimSpace(f.Name))
		if name == "" || f.Calories < 0 {
			continue
		}
		quantity := 1.0
		if f.Quantity != nil {
			quantity = *f.Quantity
		}
		if quantity <= 0 {
			continue
		}
		items = append(items, food.Item{
			Name:     name,
			Calories: int(math.Round(f.Calories)),
			Quantity: quantity,
			Unit:     strings.TrimSpace(f.Unit),
		})
	}
	return items, nil
}
