package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SitegenError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(reason string, cause error) *SitegenError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("reason", reason)
}

// Content resolution errors

// InvalidProperty signals a front-matter value that could not be coerced to
// its declared type and had no usable default. Terminal for that content item.
func InvalidProperty(name string, raw any, slug string) *SitegenError {
	return New(CategoryContent, SeverityFatal, "invalid property value").
		WithContext("property", name).
		WithContext("value", raw).
		WithContext("slug", slug)
}

// UnresolvedType signals a raw content item no content definition matched.
// Terminal for the whole build.
func UnresolvedType(path string) *SitegenError {
	return New(CategoryContent, SeverityFatal, "no content definition matches").
		WithContext("path", path)
}

// UnknownContentType signals a query or pipeline referencing a type id that
// was never declared.
func UnknownContentType(id string) *SitegenError {
	return New(CategoryQuery, SeverityError, "unknown content type").
		WithContext("content_type", id)
}

// Render errors

func RenderFailed(slug string, cause error) *SitegenError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("slug", slug)
}

func OutputWriteFailed(path string, cause error) *SitegenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output write failed").
		WithContext("path", path)
}

// Source errors

func SourceWalkFailed(dir string, cause error) *SitegenError {
	return Wrap(cause, CategorySource, SeverityFatal, "content source walk failed").
		WithContext("dir", dir)
}

func SourceCloneFailed(url string, cause error) *SitegenError {
	return Wrap(cause, CategorySource, SeverityFatal, "content repository clone failed").
		WithContext("url", url)
}
