package api

import "time"

// User is the public part of an account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

type CheckAuthRequest struct{}

type CheckAuthResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Task is a stored task. Status and Priority travel as names
// ("Pending", "InProgress", "Completed"; "Low", "Medium", "High").
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskInput carries the writable fields of a task. Empty Status and
// Priority select the defaults.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
}

type CreateTaskRequest struct {
	Task TaskInput `json:"task"`
}

type CreateTaskResponse struct {
	Task Task `json:"task"`
}

// ListTasksRequest filters, orders and pages the caller's tasks. DueDate is a
// calendar day, "2006-01-02". Zero Page/PageSize select the defaults.
type ListTasksRequest struct {
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type GetTaskRequest struct {
	ID string `json:"id"`
}

type GetTaskResponse struct {
	Task Task `json:"task"`
}

type UpdateTaskRequest struct {
	ID   string    `json:"id"`
	Task TaskInput `json:"task"`
}

type UpdateTaskResponse struct {
	Task Task `json:"task"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct{}
