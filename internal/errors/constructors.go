package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *TaskError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *TaskError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *TaskError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Workspace errors

func RemoveFailed(path string, cause error) *TaskError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "remove failed").
		WithContext("path", path)
}

func CreateFailed(path string, cause error) *TaskError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "create directory failed").
		WithContext("path", path)
}

func WalkFailed(root string, cause error) *TaskError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace walk failed").
		WithContext("root", root)
}

// External command errors

func CommandFailed(command string, cause error) *TaskError {
	return Wrap(cause, CategoryCommand, SeverityFatal, "external command failed").
		WithContext("command", command)
}

// Git errors

func GitRepositoryError(path string, cause error) *TaskError {
	return Wrap(cause, CategoryGit, SeverityFatal, "git repository unavailable").
		WithContext("path", path)
}

func GitRemoteNotFound(remote string, cause error) *TaskError {
	return Wrap(cause, CategoryGit, SeverityFatal, "git remote not found").
		WithContext("remote", remote)
}

func GitDetachedHead(path string) *TaskError {
	return New(CategoryGit, SeverityFatal, "HEAD is detached; check out a branch before pushing").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *TaskError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
