package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskkeeper.v1.TaskKeeper"

// Full method names, as seen by interceptors.
const (
	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodCheckAuth  = "/" + ServiceName + "/CheckAuth"
	MethodCreateTask = "/" + ServiceName + "/CreateTask"
	MethodListTasks  = "/" + ServiceName + "/ListTasks"
	MethodGetTask    = "/" + ServiceName + "/GetTask"
	MethodUpdateTask = "/" + ServiceName + "/UpdateTask"
	MethodDeleteTask = "/" + ServiceName + "/DeleteTask"
)

// TaskKeeperServer is the server API for the TaskKeeper service.
type TaskKeeperServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CheckAuth(context.Context, *CheckAuthRequest) (*CheckAuthResponse, error)
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(TaskKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(TaskKeeperServer)
		if ic == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return ic(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		})
	}
}

// ServiceDesc is the grpc.ServiceDesc for the TaskKeeper service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, TaskKeeperServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, TaskKeeperServer.Login)},
		{MethodName: "CheckAuth", Handler: unary(MethodCheckAuth, TaskKeeperServer.CheckAuth)},
		{MethodName: "CreateTask", Handler: unary(MethodCreateTask, TaskKeeperServer.CreateTask)},
		{MethodName: "ListTasks", Handler: unary(MethodListTasks, TaskKeeperServer.ListTasks)},
		{MethodName: "GetTask", Handler: unary(MethodGetTask, TaskKeeperServer.GetTask)},
		{MethodName: "UpdateTask", Handler: unary(MethodUpdateTask, TaskKeeperServer.UpdateTask)},
		{MethodName: "DeleteTask", Handler: unary(MethodDeleteTask, TaskKeeperServer.DeleteTask)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskkeeper/v1/taskkeeper",
}

// RegisterTaskKeeperServer registers srv on s.
func RegisterTaskKeeperServer(s grpc.ServiceRegistrar, srv TaskKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
