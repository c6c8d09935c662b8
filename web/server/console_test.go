package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan)

	logger.Printf("Rendered %dx%d frame\n", 64, 32)

	select {
	case msg := <-messageChan:
		if msg.Message != "Rendered 64x32 frame\n" {
			t.Errorf("Expected formatted message, got '%s'", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if msg.RenderID != "test-render-123" {
			t.Errorf("Expected render ID to be carried, got '%s'", msg.RenderID)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	default:
		t.Error("Expected a console message to be queued")
	}
}

func TestWebLogger_MultipleMessagesKeepOrder(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	if len(messageChan) != len(messages) {
		t.Fatalf("Expected %d queued messages, got %d", len(messages), len(messageChan))
	}
	for i, expected := range messages {
		if got := (<-messageChan).Message; got != expected+"\n" {
			t.Errorf("Message %d: expected '%s', got '%s'", i, expected+"\n", got)
		}
	}
}

func TestWebLogger_ChannelFullDoesNotBlock(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan)

	logger.Printf("Message 1\n")
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	if got := (<-messageChan).Message; got != "Message 1\n" {
		t.Errorf("Expected the first message to be kept, got '%s'", got)
	}
	if len(messageChan) != 0 {
		t.Errorf("Expected later messages to be dropped, %d queued", len(messageChan))
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil)
	logger.Printf("Test message with nil channel\n")
}

func TestMessageLevel(t *testing.T) {
	tests := map[string]string{
		"Rendered 64x64 frame\n":                 "info",
		"Frame aborted after 2 of 4 bands: x\n":  "error",
		"Upload failed: timeout\n":               "error",
		"Warning: large frame may render slowly": "warning",
	}
	for message, want := range tests {
		if got := messageLevel(message); got != want {
			t.Errorf("messageLevel(%q) = %q, want %q", message, got, want)
		}
	}
}

func TestConsoleMessage_JSON(t *testing.T) {
	msg := ConsoleMessage{RenderID: "r1", Message: "hello", Timestamp: time.Unix(0, 0).UTC(), Level: "info"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"renderId", "message", "timestamp", "level"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
}
