package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pavelanni/quizforge/internal/llm"
)

const defaultDemoDelay = 2 * time.Second

func llmOptions(v *viper.Viper) llm.Options {
	return llm.Options{
		Provider:    v.GetString("provider"),
		APIKey:      strings.TrimSpace(v.GetString("api-key")),
		BaseURL:     v.GetString("llm-url"),
		Models:      v.GetStringSlice("models"),
		Temperature: float32(v.GetFloat64("temperature")),
		Demo:        v.GetBool("demo"),
		DemoDelay:   v.GetDuration("demo-delay"),
	}
}

func newGenerator(ctx context.Context, opts llm.Options) (*llm.Generator, error) {
	gen, err := llm.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	return gen, nil
}

// promptAPIKey asks for the key on an interactive terminal without echo.
// It returns "" when stdin is not a terminal.
func promptAPIKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprint(os.Stderr, "API key (leave empty for the demo exam): ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	return strings.TrimSpace(string(key)), nil
}
