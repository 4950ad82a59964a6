package errors

import stderrors "errors"

// As re-exports errors.As so callers don't need a second import.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is re-exports errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// Convenience functions for common error patterns

// Configuration errors

func ConfigRequired(field string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalid(field, reason string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

func VariantUnknown(project, variant string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "unknown configuration variant").
		WithContext("project", project).
		WithContext("variant", variant)
}

// Project resolution errors

func ProjectDefinitionInvalid(path string, cause error) *BuilderError {
	return Wrap(cause, CategoryProject, SeverityFatal, "project definition could not be parsed").
		WithContext("path", path)
}

func ProjectAmbiguous(dir string, candidates []string) *BuilderError {
	return New(CategoryProject, SeverityFatal, "multiple projects discoverable, name one explicitly").
		WithContext("dir", dir).
		WithContext("candidates", candidates)
}

// ProjectUnresolvedAfterDownload covers the inconsistent-downloader case:
// the downloader reported success but the project still cannot be located.
func ProjectUnresolvedAfterDownload(name string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "download succeeded but project still unresolved").
		WithContext("project", name)
}

// Download errors

func DownloadFailed(project string, cause error) *BuilderError {
	return Wrap(cause, CategoryDownload, SeverityFatal, "project download failed").
		WithContext("project", project)
}

// Filesystem errors

func WorkspaceError(operation string, cause error) *BuilderError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}
