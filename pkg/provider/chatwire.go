package provider

import "encoding/base64"

// chatCompletionResponse is the OpenAI-compatible response envelope used
// by the openrouter and custom providers.
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// chatMessages renders a transcript into OpenAI-compatible wire messages,
// encoding attached frames per the provider's image format.
func chatMessages(msgs []Message, format ImageFormat) []map[string]any {
	out := make([]map[string]any, len(msgs))
	for i, m := range msgs {
		out[i] = map[string]any{
			"role":    string(m.Role),
			"content": chatContent(m, format),
		}
	}
	return out
}

func chatContent(m Message, format ImageFormat) any {
	if len(m.Image) == 0 {
		return m.Content
	}

	b64 := base64.StdEncoding.EncodeToString(m.Image)
	text := map[string]any{"type": "text", "text": m.Content}

	if format == ImageFormatInlineData {
		// Gemini-style part: raw base64, no data-URL prefix.
		return []map[string]any{
			text,
			{
				"type": "inline_data",
				"inline_data": map[string]any{
					"mime_type": "image/jpeg",
					"data":      b64,
				},
			},
		}
	}

	return []map[string]any{
		text,
		{
			"type": "image_url",
			"image_url": map[string]any{
				"url": "data:image/jpeg;base64," + b64,
			},
		},
	}
}

// firstChoice extracts the assistant text from a chat completion.
func (r *chatCompletionResponse) firstChoice() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
