// Package grpcserver exposes the TaskKeeper gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/and161185/task-keeper/internal/api"
	"github.com/and161185/task-keeper/internal/convert"
	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/service"
)

// PublicMethods can be called without a bearer token. Health checks stay
// open for load balancers and orchestrator probes.
var PublicMethods = []string{
	api.MethodRegister,
	api.MethodLogin,
	healthpb.Health_Check_FullMethodName,
	healthpb.Health_List_FullMethodName,
}

var errUnauthenticated = status.Error(codes.Unauthenticated, "unauthenticated")

// Server wires services into gRPC handlers.
type Server struct {
	auth  service.AuthService
	tasks service.TaskService
	log   *zap.Logger
}

var _ api.TaskKeeperServer = (*Server)(nil)

// New constructs a gRPC server with injected services.
func New(auth service.AuthService, tasks service.TaskService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: auth, tasks: tasks, log: log}
}

// --- Auth ---

// Register creates a new user account.
func (s *Server) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	u, err := s.auth.Register(ctx, model.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.toStatus("register", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID.String()))
	return &api.RegisterResponse{User: convert.ToWireUser(u)}, nil
}

// Login authenticates by username or email and returns an access token.
func (s *Server) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tok, u, err := s.auth.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			s.log.Warn("login failed")
		}
		return nil, s.toStatus("login", err)
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID.String()))
	return &api.LoginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt.UTC(),
		User:        convert.ToWireUser(u),
	}, nil
}

// CheckAuth returns the identity carried by the caller's token.
func (s *Server) CheckAuth(ctx context.Context, _ *api.CheckAuthRequest) (*api.CheckAuthResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	return &api.CheckAuthResponse{UserID: id.UserID.String(), Username: id.Username}, nil
}

// --- Tasks ---

// CreateTask stores a new task owned by the caller.
func (s *Server) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.CreateTaskResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	in, err := convert.FromWireTaskInput(req.Task)
	if err != nil {
		return nil, s.toStatus("create task", err)
	}
	t, err := s.tasks.Create(ctx, id.UserID, in)
	if err != nil {
		return nil, s.toStatus("create task", err)
	}
	s.log.Info("task created", zap.String("task_id", t.ID.String()), zap.String("user_id", id.UserID.String()))
	return &api.CreateTaskResponse{Task: convert.ToWireTask(*t)}, nil
}

// ListTasks returns one page of the caller's tasks.
func (s *Server) ListTasks(ctx context.Context, req *api.ListTasksRequest) (*api.ListTasksResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	q, err := convert.FromWireListRequest(req)
	if err != nil {
		return nil, s.toStatus("list tasks", err)
	}
	ts, err := s.tasks.List(ctx, id.UserID, q)
	if err != nil {
		return nil, s.toStatus("list tasks", err)
	}
	s.log.Debug("tasks listed", zap.String("user_id", id.UserID.String()), zap.Int("count", len(ts)))
	return &api.ListTasksResponse{Tasks: convert.ToWireTasks(ts)}, nil
}

// GetTask returns one of the caller's tasks.
func (s *Server) GetTask(ctx context.Context, req *api.GetTaskRequest) (*api.GetTaskResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	taskID, err := convert.ParseID(req.ID)
	if err != nil {
		return nil, s.toStatus("get task", err)
	}
	t, err := s.tasks.Get(ctx, id.UserID, taskID)
	if err != nil {
		s.logMissing(err, req.ID, id)
		return nil, s.toStatus("get task", err)
	}
	s.log.Info("task fetched", zap.String("task_id", req.ID), zap.String("user_id", id.UserID.String()))
	return &api.GetTaskResponse{Task: convert.ToWireTask(*t)}, nil
}

// UpdateTask replaces the writable fields of one of the caller's tasks.
func (s *Server) UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.UpdateTaskResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	taskID, err := convert.ParseID(req.ID)
	if err != nil {
		return nil, s.toStatus("update task", err)
	}
	in, err := convert.FromWireTaskInput(req.Task)
	if err != nil {
		return nil, s.toStatus("update task", err)
	}
	t, err := s.tasks.Update(ctx, id.UserID, taskID, in)
	if err != nil {
		s.logMissing(err, req.ID, id)
		return nil, s.toStatus("update task", err)
	}
	s.log.Info("task updated", zap.String("task_id", req.ID), zap.String("user_id", id.UserID.String()))
	return &api.UpdateTaskResponse{Task: convert.ToWireTask(*t)}, nil
}

// DeleteTask removes one of the caller's tasks. Missing and foreign tasks are NotFound.
func (s *Server) DeleteTask(ctx context.Context, req *api.DeleteTaskRequest) (*api.DeleteTaskResponse, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	taskID, err := convert.ParseID(req.ID)
	if err != nil {
		return nil, s.toStatus("delete task", err)
	}
	ok, err := s.tasks.Delete(ctx, id.UserID, taskID)
	if err != nil {
		return nil, s.toStatus("delete task", err)
	}
	if !ok {
		s.logMissing(errs.ErrNotFound, req.ID, id)
		return nil, s.toStatus("delete task", errs.ErrNotFound)
	}
	s.log.Info("task deleted", zap.String("task_id", req.ID), zap.String("user_id", id.UserID.String()))
	return &api.DeleteTaskResponse{}, nil
}

// identity returns the principal stored by AuthUnary, falling back to the
// bearer token when the server runs without the interceptor.
func (s *Server) identity(ctx context.Context) (model.Identity, error) {
	if id, ok := IdentityFromCtx(ctx); ok {
		return id, nil
	}
	id, err := authenticate(ctx, s.auth)
	if err != nil {
		return model.Identity{}, errUnauthenticated
	}
	return id, nil
}

func (s *Server) logMissing(err error, taskID string, id model.Identity) {
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Warn("task not found or not owned", zap.String("task_id", taskID), zap.String("user_id", id.UserID.String()))
	}
}

// toStatus maps domain errors to gRPC statuses. Causes of internal failures
// are logged and never sent to the caller.
func (s *Server) toStatus(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "username or email already taken")
	case errs.IsUnauthenticated(err):
		return errUnauthenticated
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.log.Error(op+" failed", zap.Error(err))
		return status.Error(codes.Internal, "internal")
	}
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			t := strings.TrimSpace(v[7:])
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}
