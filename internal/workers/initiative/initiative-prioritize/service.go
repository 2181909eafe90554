package initiativeprioritize

import (
	"context"
	"fmt"
	"math"
	"strings"

	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/metrics"
	"productlab-workers/internal/models"
)

// Logger is the subset of logger.Logger the service uses.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
}

type ServiceDependencies struct {
	Logger Logger
	Store  BoardStore
}

type Service struct {
	config *Config
	logger Logger
	store  BoardStore
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	store := deps.Store
	if store == nil {
		store = NewMemoryBoardStore()
	}
	return &Service{config: config, logger: deps.Logger, store: store}
}

func (s *Service) Store() BoardStore {
	return s.store
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	action, err := parseAction(input.Action)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("initiative board", err)
	}

	if input.Initiatives != nil {
		return s.inline(action, input.Initiatives)
	}

	boardID := input.BoardID
	if boardID == "" {
		boardID = s.config.DefaultBoard
	}
	return s.stored(ctx, action, boardID)
}

func (s *Service) inline(action Action, items []models.Initiative) (*Output, error) {
	for i, item := range items {
		if err := ValidateInitiative(item); err != nil {
			return nil, errors.NewInvalidInitiativeError(fmt.Sprintf("initiatives[%d]: %v", i, err))
		}
	}

	board := append([]models.Initiative(nil), items...)
	if action == ActionSort {
		SortByScoreDescending(board)
	}
	metrics.BoardOperations.WithLabelValues(string(action), StoreInline).Inc()

	return &Output{
		BoardID: StoreInline,
		Action:  string(action),
		Store:   StoreInline,
		Rows:    Render(board),
	}, nil
}

func (s *Service) stored(ctx context.Context, action Action, boardID string) (*Output, error) {
	var (
		board []models.Initiative
		err   error
	)
	switch action {
	case ActionSort:
		board, err = s.store.Update(ctx, boardID, SortByScoreDescending)
	default:
		board, err = s.store.Load(ctx, boardID)
	}
	if err != nil {
		return nil, errors.NewBoardStateFailedError(boardID, err)
	}

	metrics.BoardOperations.WithLabelValues(string(action), s.store.Name()).Inc()
	s.logger.Debug("Board loaded", map[string]interface{}{
		"boardId": boardID,
		"action":  string(action),
		"store":   s.store.Name(),
		"items":   len(board),
	})

	return &Output{
		BoardID: boardID,
		Action:  string(action),
		Store:   s.store.Name(),
		Rows:    Render(board),
	}, nil
}

func parseAction(raw string) (Action, error) {
	switch Action(raw) {
	case "", ActionRender:
		return ActionRender, nil
	case ActionSort:
		return ActionSort, nil
	default:
		return "", errors.NewInvalidBoardActionError(raw)
	}
}

// ValidateInitiative rejects items whose score would be meaningless.
func ValidateInitiative(item models.Initiative) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for field, v := range map[string]float64{"userValue": item.UserValue, "businessValue": item.BusinessValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %v", field, v)
		}
	}
	if math.IsNaN(item.Effort) || math.IsInf(item.Effort, 0) || item.Effort <= 0 {
		return fmt.Errorf("effort must be positive, got %v", item.Effort)
	}
	return nil
}
