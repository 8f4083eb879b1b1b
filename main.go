package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	interviewx "github.com/chayanin/Summit-Goal-Coaching/engine/interview"
	llmx "github.com/chayanin/Summit-Goal-Coaching/engine/llm"
	promptx "github.com/chayanin/Summit-Goal-Coaching/engine/prompt"
	provisionx "github.com/chayanin/Summit-Goal-Coaching/engine/provision"
	reasoningx "github.com/chayanin/Summit-Goal-Coaching/engine/reasoning"
	sessionx "github.com/chayanin/Summit-Goal-Coaching/engine/session"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
	turnx "github.com/chayanin/Summit-Goal-Coaching/engine/turn"
	configx "github.com/chayanin/Summit-Goal-Coaching/pkg/config"
	_ "github.com/chayanin/Summit-Goal-Coaching/pkg/logger/autoload"
	openaix "github.com/chayanin/Summit-Goal-Coaching/pkg/openaiclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	openaiCfg := configx.MustNew[openaix.Config]("OPENAI")
	sdkClient := openaix.NewClient(*openaiCfg)
	if sdkClient == nil {
		log.Fatal().Msg("failed to initialize openai client")
	}

	client, err := reasoningx.NewOpenAIClient(sdkClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build reasoning client")
	}

	storeCfg := configx.MustNew[storex.Config]("POSTGRES")
	store, err := storex.NewPostgresStore(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open coach store")
	}
	if err := store.ResetModel(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare coach tables")
	}

	prompts := promptx.LoadPromptSet()

	conductor, err := interviewx.NewConductor(client, llmCfg.Interview(), prompts.Interviewer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build interview conductor")
	}
	synthesizer, err := interviewx.NewSynthesizer(client, llmCfg.Persona(), prompts.Persona)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build profile synthesizer")
	}
	provisioner, err := provisionx.NewAgentProvisioner(client, llmCfg.Agent(), prompts.CoachInstructions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agent provisioner")
	}
	runner, err := turnx.NewRunner(client, turnx.DefaultPollPolicy())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build turn runner")
	}

	engine, err := sessionx.New(store, conductor, synthesizer, provisioner, runner)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session orchestrator")
	}
	_ = engine

	log.Info().Msg("coaching engine ready")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}
