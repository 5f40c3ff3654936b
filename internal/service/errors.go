package service

// Messages shared by several operations. They are shown to clients as-is.
const (
	MsgEmailExists        = "An employee with the same email already exists."
	MsgVersionConflict    = "Task was modified concurrently, reload and retry"
	MsgInvalidCredentials = "Invalid email or password."
	MsgTaskRequired       = "Task data is required."
	MsgEmployeeRequired   = "Employee data is required."
	MsgTaskIDMismatch     = "Task ID mismatch."
	MsgEmployeeIDMismatch = "Employee ID mismatch."
	MsgTaskNotOverdue     = "Task is not overdue."
	MsgNotTaskParticipant = "Only the assignee or reviewer can change this task."
	MsgInvalidData        = "One or more fields are invalid."

	msgTaskNotFound     = "Task with ID %d not found"
	msgEmployeeNotFound = "Employee with ID %d not found"
)
