// Package llm wraps the Vertex AI Gemini API behind the small surface the
// coaching layer needs: one-shot generation and a streamed chat turn.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"github.com/jylim/leadership-coach/internal/models"
	"google.golang.org/api/iterator"
)

const defaultModel = "gemini-1.5-flash"

// ChunkFunc receives each text chunk of a streamed reply as it arrives.
type ChunkFunc func(text string)

// VertexAIClient wraps the Vertex AI Gemini API.
type VertexAIClient struct {
	client    *genai.Client
	modelName string
	projectID string
	location  string
}

// NewVertexAIClient creates a new Vertex AI client. It fails when
// GOOGLE_CLOUD_PROJECT is unset; callers treat that as "coaching disabled",
// not as a fatal condition.
func NewVertexAIClient(ctx context.Context, modelName string) (*VertexAIClient, error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT environment variable not set")
	}

	location := os.Getenv("GOOGLE_CLOUD_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	if modelName == "" {
		modelName = defaultModel
	}

	return &VertexAIClient{
		client:    client,
		modelName: modelName,
		projectID: projectID,
		location:  location,
	}, nil
}

func (v *VertexAIClient) model(system string) *genai.GenerativeModel {
	model := v.client.GenerativeModel(v.modelName)
	model.SetTemperature(0.4)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	return model
}

// GenerateContent sends a single prompt to the model and returns the
// response text.
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model("").GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates returned")
	}
	return responseText(resp), nil
}

// StreamChat sends one chat turn with the given system instruction and prior
// history and streams the reply. Each chunk is handed to onChunk as it
// arrives; the concatenated reply is returned once the stream is exhausted.
// The chunk stream is finite and non-restartable; on any error the partial
// text is discarded and only the error is returned.
func (v *VertexAIClient) StreamChat(ctx context.Context, system string, history []models.ChatMessage, message string, onChunk ChunkFunc) (string, error) {
	session := v.model(system).StartChat()
	session.History = chatHistory(history)

	iter := session.SendMessageStream(ctx, genai.Text(message))

	var full string
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("streaming reply failed: %w", err)
		}

		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full += chunk
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if full == "" {
		return "", errors.New("model returned an empty reply")
	}
	return full, nil
}

// chatHistory converts the session chat log to the genai content shape. The
// assistant role maps to the API's "model" role.
func chatHistory(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// responseText flattens the textual parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}
	return result
}

// Close closes the underlying client.
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
