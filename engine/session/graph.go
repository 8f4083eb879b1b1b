package session

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/chayanin/Summit-Goal-Coaching/engine/nodes"
)

func (o *Orchestrator) compileStartCoachingGraph(
	ctx context.Context,
) (compose.Runnable[nodex.StartInput, nodex.StartOutput], error) {
	graph := compose.NewGraph[nodex.StartInput, nodex.StartOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.StartInput) (*nodex.StartState, error) {
			return nodex.ValidateStart(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("ensure_no_coach",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.EnsureNoCoach(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node ensure_no_coach: %w", err)
	}

	if err := graph.AddLambdaNode("conduct_interview",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.ConductInterview(ctx, in, o.interviewer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node conduct_interview: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize_persona",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.SynthesizePersona(ctx, in, o.synthesizer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize_persona: %w", err)
	}

	if err := graph.AddLambdaNode("provision_agent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.ProvisionAgent(ctx, in, o.provisioner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node provision_agent: %w", err)
	}

	if err := graph.AddLambdaNode("persist_coach",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.PersistCoach(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_coach: %w", err)
	}

	if err := graph.AddLambdaNode("persist_welcome",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (*nodex.StartState, error) {
			return nodex.PersistWelcome(ctx, in, o.store, o.prompts.Welcome)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_welcome: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_coach",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.StartState) (nodex.StartOutput, error) {
			return nodex.FinalizeCoach(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_coach: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "ensure_no_coach"},
		{"ensure_no_coach", "conduct_interview"},
		{"conduct_interview", "synthesize_persona"},
		{"synthesize_persona", "provision_agent"},
		{"provision_agent", "persist_coach"},
		{"persist_coach", "persist_welcome"},
		{"persist_welcome", "finalize_coach"},
		{"finalize_coach", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("session.start_coaching"))
	if err != nil {
		return nil, fmt.Errorf("compile start coaching graph: %w", err)
	}
	return runner, nil
}

func (o *Orchestrator) compileSendMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.SendInput, nodex.SendOutput], error) {
	graph := compose.NewGraph[nodex.SendInput, nodex.SendOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.SendInput) (*nodex.SendState, error) {
			return nodex.ValidateSend(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_coach",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.SendState) (*nodex.SendState, error) {
			return nodex.ResolveCoach(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_coach: %w", err)
	}

	if err := graph.AddLambdaNode("persist_user_message",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.SendState) (*nodex.SendState, error) {
			return nodex.PersistUserMessage(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_user_message: %w", err)
	}

	if err := graph.AddLambdaNode("run_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.SendState) (*nodex.SendState, error) {
			return nodex.RunTurn(ctx, in, o.runner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_turn: %w", err)
	}

	if err := graph.AddLambdaNode("persist_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.SendState) (*nodex.SendState, error) {
			return nodex.PersistReply(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_reply: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_messages",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.SendState) (nodex.SendOutput, error) {
			return nodex.FinalizeMessages(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_messages: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "resolve_coach"},
		{"resolve_coach", "persist_user_message"},
		{"persist_user_message", "run_turn"},
		{"run_turn", "persist_reply"},
		{"persist_reply", "finalize_messages"},
		{"finalize_messages", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("session.send_message"))
	if err != nil {
		return nil, fmt.Errorf("compile send message graph: %w", err)
	}
	return runner, nil
}
