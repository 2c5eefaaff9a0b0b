package todo

import (
	"context"
	"errors"
	"time"
	domainTodo "todo-backend/internal/domain/todo"
	"todo-backend/internal/infrastructure/cache"
	"todo-backend/internal/logger"
	appErrors "todo-backend/pkg/errors"
	"todo-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// Service implements the per-user todo CRUD use cases. Every operation takes
// the authenticated principal's id explicitly; there is no ambient auth
// state. Ownership is checked before any mutation.
type Service struct {
	todoRepo domainTodo.Repository
	cache    *cache.TodoCache
}

// NewService creates a new todo service. cache may be nil to disable page
// caching.
func NewService(todoRepo domainTodo.Repository, todoCache *cache.TodoCache) *Service {
	return &Service{
		todoRepo: todoRepo,
		cache:    todoCache,
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page, perPage int) (*TodoListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var cached TodoListResponse
	if s.cache.GetPage(ctx, userID, page, perPage, &cached) {
		return &cached, nil
	}

	todos, total, err := s.todoRepo.ListByUser(ctx, userID, &domainTodo.Filter{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*TodoResponse, len(todos))
	for i, t := range todos {
		items[i] = ToTodoResponse(t)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	response := &TodoListResponse{
		Items: items,
		Meta: ListMeta{
			Total:    total,
			Page:     page,
			PerPage:  perPage,
			LastPage: lastPage,
		},
	}

	s.cache.SetPage(ctx, userID, page, perPage, response)

	return response, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateTodoRequest) (*TodoResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	slug := utils.Slugify(req.Title)

	// The owner is always the authenticated caller.
	t := &domainTodo.Todo{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Slug:    &slug,
	}
	if err := s.todoRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)

	logger.Info("Todo created",
		zap.String("todo_id", t.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("event", "todo_created"),
	)

	return ToTodoResponse(t), nil
}

func (s *Service) Update(ctx context.Context, userID, todoID uuid.UUID, req *UpdateTodoRequest) (*TodoResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	t, err := s.findOwned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	// Only title and content are mutable.
	t.Title = req.Title
	t.Content = req.Content
	t.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)

	return ToTodoResponse(t), nil
}

func (s *Service) Delete(ctx context.Context, userID, todoID uuid.UUID) (bool, error) {
	t, err := s.findOwned(ctx, userID, todoID)
	if err != nil {
		return false, err
	}

	if err := s.todoRepo.Delete(ctx, t.ID); err != nil {
		return false, err
	}

	s.cache.Invalidate(ctx, userID)

	logger.Info("Todo deleted",
		zap.String("todo_id", t.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("event", "todo_deleted"),
	)

	return true, nil
}

// findOwned loads a todo and enforces ownership. A todo owned by someone
// else is an authorization failure, not a not-found: the record exists but
// access is denied.
func (s *Service) findOwned(ctx context.Context, userID, todoID uuid.UUID) (*domainTodo.Todo, error) {
	t, err := s.todoRepo.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, domainTodo.ErrTodoNotFound) {
			return nil, appErrors.ErrTodoNotFound
		}
		return nil, err
	}

	if t.UserID != userID {
		logger.Warn("Todo access by non-owner",
			zap.String("todo_id", todoID.String()),
			zap.String("owner_id", t.UserID.String()),
			zap.String("caller_id", userID.String()),
			zap.String("event", "todo_ownership_rejected"),
		)
		return nil, appErrors.ErrTodoOwnership
	}

	return t, nil
}
