package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	"github.com/bryanwahyu/prompt-sentinel/internal/application/guard"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/sentinel"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/ai/openai"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/reportclient"
)

// guardOptions are the detection flags shared by scan and ask.
type guardOptions struct {
	patternsFile string
	useLLM       bool
	report       bool
	projectToken string
}

func (g *guardOptions) bind(flags *pflag.FlagSet) {
	flags.StringVar(&g.patternsFile, "patterns", "", "YAML file of name: regex secret patterns (overrides config)")
	flags.BoolVar(&g.useLLM, "llm", false, "Also ask the model to find secrets (needs OPENAI_API_KEY)")
	flags.BoolVar(&g.report, "report", true, "Send a report to the reports server when secrets are found")
	flags.StringVar(&g.projectToken, "project-token", "", "Project key sent with reports (overrides config)")
}

func (o *rootOptions) openAIClient() (*openai.Client, error) {
	key := o.cfg.OpenAI.APIKey
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("no OpenAI API key: set OPENAI_API_KEY or openai.apiKey")
	}
	if o.cfg.OpenAI.BaseURL != "" {
		return openai.NewClientWithBaseURL(key, o.cfg.OpenAI.Model, o.cfg.OpenAI.BaseURL), nil
	}
	return openai.NewClient(key, o.cfg.OpenAI.Model), nil
}

// buildGuard wires detectors, the reporter and (optionally) the completer.
func (o *rootOptions) buildGuard(g *guardOptions, completer guard.Completer) (*guard.Service, error) {
	patterns := g.patternsFile
	if patterns == "" {
		patterns = o.cfg.Detector.PatternsFile
	}
	regex, err := sentinel.LoadRegexDetector(patterns)
	if err != nil {
		return nil, err
	}

	detectors := sentinel.MultiDetector{regex}
	if g.useLLM || o.cfg.Detector.UseLLM {
		client, err := o.openAIClient()
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, openai.NewDetector(client))
	}

	svc := &guard.Service{
		Detector:  detectors,
		Completer: completer,
		Clock:     application.SystemClock{},
		Log:       o.log,
		SessionID: uuid.NewString(),
	}
	if g.report {
		svc.Reporter = reportclient.New(o.cfg.Client.ServerURL, o.cfg.Client.Timeout)
		svc.ProjectToken = o.cfg.Client.ProjectToken
		if g.projectToken != "" {
			svc.ProjectToken = g.projectToken
		}
	}
	return svc, nil
}
