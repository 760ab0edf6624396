package generate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// claudeSystemPrompt frames every generation call.
const claudeSystemPrompt = `You are an infrastructure and software architecture assistant.
Given a component of a larger system, produce a complete, actionable
implementation guide for that component only. Be specific about
configuration, validation, and operational concerns.`

// ClaudeConfig contains configuration for creating a ClaudeGenerator.
type ClaudeConfig struct {
	// Model is the Claude model to use. Empty selects a default.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// MaxTokens caps the response size. Zero selects a default.
	MaxTokens int64
	// UseAWSBedrock routes calls through AWS Bedrock instead of the API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g. "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// ClaudeGenerator produces subtask content through the Anthropic API.
type ClaudeGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClaudeGenerator creates an API-backed generator.
func NewClaudeGenerator(cfg ClaudeConfig) (*ClaudeGenerator, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &ClaudeGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Generate renders a user prompt from the generation request and returns
// the model's text response.
func (g *ClaudeGenerator) Generate(ctx context.Context, config any) (string, error) {
	req, err := requestFromConfig(config)
	if err != nil {
		return "", err
	}

	userPrompt := fmt.Sprintf("Component: %s\n\nTask: %s\n\nTechnologies: %s\n\nRequirements: %s",
		req.TaskName, req.TaskDescription, strings.Join(req.Technologies, ", "), req.CodeRequirements)

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: claudeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return text.String(), nil
}
