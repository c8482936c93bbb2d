package lifecycle

import (
	"fmt"
	"strings"
)

// renderPrompt turns a conversation into the ChatML form the qwen family
// expects, ending with the generation prompt for the assistant turn.
func renderPrompt(req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("empty conversation")
	}
	var b strings.Builder
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system", "user", "assistant":
		default:
			return "", fmt.Errorf("unknown role %q", msg.Role)
		}
		b.WriteString("<|im_start|>")
		b.WriteString(msg.Role)
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("<|im_end|>\n")
	}
	b.WriteString("<|im_start|>assistant\n")
	return b.String(), nil
}

// UserRequest builds a single-turn request, optionally prefixed with a
// system prompt.
func UserRequest(system, prompt string, temperature float64) Request {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt})
	return Request{Messages: msgs, Temperature: temperature}
}

// ChatRequest builds a multi-turn request, optionally prefixed with a
// system prompt.
func ChatRequest(system string, messages []Message, temperature float64) Request {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	msgs = append(msgs, messages...)
	return Request{Messages: msgs, Temperature: temperature}
}
