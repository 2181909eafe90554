package main

import (
	"context"
	"fmt"

	"productlab-workers/internal/common/camunda"
	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/observability"
	"productlab-workers/pkg/registry"

	ds "productlab-workers/internal/workers/discovery/discovery-summarize"
	fs "productlab-workers/internal/workers/funnel/funnel-simulate"
	ip "productlab-workers/internal/workers/initiative/initiative-prioritize"
	ps "productlab-workers/internal/workers/persona/persona-select"
)

// workerHandler is what every worker package's Handler provides.
type workerHandler interface {
	camunda.JobHandler
	GetTaskType() string
	IsEnabled() bool
}

type handlerDeps struct {
	Logger        logger.Logger
	Observability *observability.Observability
	Surfaces      *chart.Surfaces
	Store         ip.BoardStore
}

type handlers struct {
	persona    *ps.Handler
	discovery  *ds.Handler
	funnel     *fs.Handler
	initiative *ip.Handler
}

func buildHandlers(cfg *config.Config, deps handlerDeps) (*handlers, error) {
	persona, err := ps.NewHandler(ps.HandlerOptions{
		AppConfig:     cfg,
		Logger:        deps.Logger,
		Observability: deps.Observability,
	})
	if err != nil {
		return nil, err
	}

	discovery, err := ds.NewHandler(ds.HandlerOptions{
		AppConfig:     cfg,
		Logger:        deps.Logger,
		Observability: deps.Observability,
	})
	if err != nil {
		return nil, err
	}

	funnel, err := fs.NewHandler(fs.HandlerOptions{
		AppConfig:     cfg,
		Logger:        deps.Logger,
		Observability: deps.Observability,
		Surfaces:      deps.Surfaces,
	})
	if err != nil {
		return nil, err
	}

	initiative, err := ip.NewHandler(ip.HandlerOptions{
		AppConfig:     cfg,
		Logger:        deps.Logger,
		Observability: deps.Observability,
		Store:         deps.Store,
	})
	if err != nil {
		return nil, err
	}

	return &handlers{
		persona:    persona,
		discovery:  discovery,
		funnel:     funnel,
		initiative: initiative,
	}, nil
}

func (h *handlers) all() []workerHandler {
	return []workerHandler{h.persona, h.discovery, h.funnel, h.initiative}
}

// warmUp renders the initial state: the default persona, the funnel chart
// with default inputs and the default board in natural order.
func (h *handlers) warmUp(ctx context.Context, log logger.Logger) error {
	persona, err := h.persona.Execute(ctx, &ps.Input{})
	if err != nil {
		return fmt.Errorf("persona: %w", err)
	}
	funnel, err := h.funnel.Execute(ctx, &fs.Input{})
	if err != nil {
		return fmt.Errorf("funnel: %w", err)
	}
	board, err := h.initiative.Execute(ctx, &ip.Input{Action: string(ip.ActionRender)})
	if err != nil {
		return fmt.Errorf("initiatives: %w", err)
	}

	log.Info("Initial state rendered", map[string]interface{}{
		"personaKey":   persona.PersonaKey,
		"extraRevenue": funnel.ExtraRevenueFormatted,
		"chartId":      funnel.ChartID,
		"boardId":      board.BoardID,
		"initiatives":  len(board.Rows),
	})
	return nil
}

// selectWorkers keeps the enabled handlers whose task type is registered.
func selectWorkers(all []workerHandler, reg *registry.ActivityRegistry, log logger.Logger) []workerHandler {
	selected := make([]workerHandler, 0, len(all))
	for _, h := range all {
		if !h.IsEnabled() {
			log.Info("worker disabled", map[string]interface{}{"taskType": h.GetTaskType()})
			continue
		}
		if _, err := reg.FindByTaskType(h.GetTaskType()); err != nil {
			log.Error("worker not in activity registry, not starting", map[string]interface{}{
				"taskType": h.GetTaskType(),
				"error":    err.Error(),
			})
			continue
		}
		selected = append(selected, h)
	}
	return selected
}

func startWorkers(client *camunda.Client, cfg *config.Config, selected []workerHandler, log logger.Logger) []*camunda.CamundaWorker {
	started := make([]*camunda.CamundaWorker, 0, len(selected))
	for _, h := range selected {
		wcfg := config.GetWorkerConfig(cfg, h.GetTaskType())
		w := camunda.NewWorker(client.GetClient(), camunda.WorkerOptions{
			TaskType:      h.GetTaskType(),
			Name:          cfg.App.Name,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, h, log)
		w.Start()
		started = append(started, w)
	}
	return started
}
